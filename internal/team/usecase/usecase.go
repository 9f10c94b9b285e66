package usecase

import (
	"context"

	authdomain "kanban-backend/internal/auth/domain"
	teamdomain "kanban-backend/internal/team/domain"
)

// TeamUsecase defines the interface for team business logic
type TeamUsecase interface {
	CreateTeam(ctx context.Context, userID, name string) (*teamdomain.Team, error)
	Invite(ctx context.Context, inviterID, targetUsername, teamName string) (*teamdomain.Invitation, error)
	PendingInvitation(ctx context.Context, userID string) (*teamdomain.Invitation, error)
	AcceptInvitation(ctx context.Context, userID string) (*teamdomain.Membership, error)
	Membership(ctx context.Context, userID string) (*teamdomain.Membership, error)
}

// UserFinder is the slice of the account store the team logic needs.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*authdomain.User, error)
}
