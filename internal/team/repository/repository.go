package repository

import (
	"context"

	boarddomain "kanban-backend/internal/board/domain"
	teamdomain "kanban-backend/internal/team/domain"
)

// TeamRepository defines the interface for teams, memberships and invitations.
// Finders return nil, nil when nothing matches.
type TeamRepository interface {
	// CreateWithBoard stores the team, makes its leader a leader member and
	// creates the team's board, all in one transaction.
	CreateWithBoard(ctx context.Context, team *teamdomain.Team) (*boarddomain.Board, error)
	FindByName(ctx context.Context, name string) (*teamdomain.Team, error)
	FindByID(ctx context.Context, id string) (*teamdomain.Team, error)

	MembershipOf(ctx context.Context, userID string) (*teamdomain.Membership, error)

	CreateInvitation(ctx context.Context, invitation *teamdomain.Invitation) error
	FindInvitation(ctx context.Context, inviteeID string) (*teamdomain.Invitation, error)
	// AcceptInvitation replaces the invitee's membership with a member role in
	// the inviting team and consumes the invitation.
	AcceptInvitation(ctx context.Context, invitation *teamdomain.Invitation) (*teamdomain.Membership, error)
}
