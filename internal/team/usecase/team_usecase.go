package usecase

import (
	"context"
	"strings"

	teamdomain "kanban-backend/internal/team/domain"
	"kanban-backend/internal/team/repository"

	"go.uber.org/zap"
)

// teamUsecase implements TeamUsecase interface
type teamUsecase struct {
	teamRepo repository.TeamRepository
	users    UserFinder
}

// NewTeamUsecase creates a new instance of teamUsecase
func NewTeamUsecase(teamRepo repository.TeamRepository, users UserFinder) TeamUsecase {
	return &teamUsecase{
		teamRepo: teamRepo,
		users:    users,
	}
}

func (u *teamUsecase) CreateTeam(ctx context.Context, userID, name string) (*teamdomain.Team, error) {
	membership, err := u.teamRepo.MembershipOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if membership.IsLeader() {
		return nil, teamdomain.ErrAlreadyLeader
	}

	name = strings.TrimSpace(name)
	existing, err := u.teamRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, teamdomain.ErrTeamNameTaken
	}

	team := &teamdomain.Team{Name: name, LeaderID: userID}
	board, err := u.teamRepo.CreateWithBoard(ctx, team)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Team created",
		zap.String("team", team.Name),
		zap.String("leaderID", userID),
		zap.String("boardID", board.ID))
	return team, nil
}

func (u *teamUsecase) Invite(ctx context.Context, inviterID, targetUsername, teamName string) (*teamdomain.Invitation, error) {
	team, err := u.teamRepo.FindByName(ctx, teamName)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, teamdomain.ErrTeamNotFound
	}
	if team.LeaderID != inviterID {
		return nil, teamdomain.ErrNotLeader
	}

	target, err := u.users.FindByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, teamdomain.ErrUserNotFound
	}

	membership, err := u.teamRepo.MembershipOf(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	if membership.IsLeader() {
		return nil, teamdomain.ErrInviteeIsLeader
	}
	if membership != nil && membership.TeamID == team.ID {
		return nil, teamdomain.ErrAlreadyMember
	}

	pending, err := u.teamRepo.FindInvitation(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, teamdomain.ErrAlreadyInvited
	}

	invitation := &teamdomain.Invitation{
		TeamID:    team.ID,
		InviteeID: target.ID,
		InviterID: inviterID,
	}
	if err := u.teamRepo.CreateInvitation(ctx, invitation); err != nil {
		return nil, err
	}
	invitation.Team = team

	zap.L().Info("Invitation sent", zap.String("team", team.Name), zap.String("invitee", target.Username))
	return invitation, nil
}

func (u *teamUsecase) PendingInvitation(ctx context.Context, userID string) (*teamdomain.Invitation, error) {
	invitation, err := u.teamRepo.FindInvitation(ctx, userID)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, teamdomain.ErrNoInvitation
	}
	return invitation, nil
}

func (u *teamUsecase) AcceptInvitation(ctx context.Context, userID string) (*teamdomain.Membership, error) {
	invitation, err := u.PendingInvitation(ctx, userID)
	if err != nil {
		return nil, err
	}

	membership, err := u.teamRepo.MembershipOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if membership.IsLeader() {
		return nil, teamdomain.ErrLeaderCannotLeave
	}

	return u.teamRepo.AcceptInvitation(ctx, invitation)
}

func (u *teamUsecase) Membership(ctx context.Context, userID string) (*teamdomain.Membership, error) {
	membership, err := u.teamRepo.MembershipOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, teamdomain.ErrNotMember
	}
	return membership, nil
}
