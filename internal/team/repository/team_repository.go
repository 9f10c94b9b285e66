package repository

import (
	"context"
	"errors"
	"time"

	boarddomain "kanban-backend/internal/board/domain"
	teamdomain "kanban-backend/internal/team/domain"
	"kanban-backend/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// teamRepository implements TeamRepository interface
type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of teamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

// upsertMembership keeps one membership row per user.
func upsertMembership(tx *gorm.DB, m *teamdomain.Membership) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"team_id", "role", "created_at"}),
	}).Create(m).Error
}

func (r *teamRepository) CreateWithBoard(ctx context.Context, team *teamdomain.Team) (*boarddomain.Board, error) {
	now := time.Now()
	team.ID = uuid.New().String()
	team.CreatedAt = now
	board := &boarddomain.Board{
		ID:        uuid.New().String(),
		TeamID:    team.ID,
		CreatedAt: now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return teamdomain.ErrTeamNameTaken
			}
			return err
		}
		membership := &teamdomain.Membership{
			UserID:    team.LeaderID,
			TeamID:    team.ID,
			Role:      teamdomain.RoleLeader,
			CreatedAt: now,
		}
		if err := upsertMembership(tx, membership); err != nil {
			return err
		}
		// a leader has no use for a pending invitation
		if err := tx.Where("invitee_id = ?", team.LeaderID).Delete(&teamdomain.Invitation{}).Error; err != nil {
			return err
		}
		return tx.Create(board).Error
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (r *teamRepository) FindByName(ctx context.Context, name string) (*teamdomain.Team, error) {
	return r.findTeam(ctx, "name = ?", name)
}

func (r *teamRepository) FindByID(ctx context.Context, id string) (*teamdomain.Team, error) {
	return r.findTeam(ctx, "id = ?", id)
}

func (r *teamRepository) findTeam(ctx context.Context, query string, arg string) (*teamdomain.Team, error) {
	var team teamdomain.Team
	err := r.db.WithContext(ctx).Where(query, arg).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) MembershipOf(ctx context.Context, userID string) (*teamdomain.Membership, error) {
	var membership teamdomain.Membership
	err := r.db.WithContext(ctx).Preload("Team").Where("user_id = ?", userID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

func (r *teamRepository) CreateInvitation(ctx context.Context, invitation *teamdomain.Invitation) error {
	invitation.ID = uuid.New().String()
	invitation.CreatedAt = time.Now()
	err := r.db.WithContext(ctx).Create(invitation).Error
	if database.IsUniqueViolation(err) {
		return teamdomain.ErrAlreadyInvited
	}
	return err
}

func (r *teamRepository) FindInvitation(ctx context.Context, inviteeID string) (*teamdomain.Invitation, error) {
	var invitation teamdomain.Invitation
	err := r.db.WithContext(ctx).Preload("Team").Where("invitee_id = ?", inviteeID).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *teamRepository) AcceptInvitation(ctx context.Context, invitation *teamdomain.Invitation) (*teamdomain.Membership, error) {
	membership := &teamdomain.Membership{
		UserID:    invitation.InviteeID,
		TeamID:    invitation.TeamID,
		Role:      teamdomain.RoleMember,
		CreatedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", invitation.ID).Delete(&teamdomain.Invitation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return teamdomain.ErrNoInvitation
		}
		return upsertMembership(tx, membership)
	})
	if err != nil {
		return nil, err
	}
	membership.Team = invitation.Team
	return membership, nil
}
