package domain

import "time"

// Role is a member's standing within a team
type Role string

const (
	RoleLeader Role = "leader"
	RoleMember Role = "member"
)

type Team struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:20;not null"`
	LeaderID  string    `json:"leader_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership ties a user to at most one team.
type Membership struct {
	UserID    string    `json:"user_id" gorm:"primaryKey"`
	TeamID    string    `json:"team_id" gorm:"index;not null"`
	Team      *Team     `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Role      Role      `json:"role" gorm:"size:16;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Membership) IsLeader() bool {
	return m != nil && m.Role == RoleLeader
}

// Invitation is a pending offer for a user to join a team. A user holds at
// most one pending invitation.
type Invitation struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TeamID    string    `json:"team_id" gorm:"index;not null"`
	Team      *Team     `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	InviteeID string    `json:"invitee_id" gorm:"uniqueIndex;not null"`
	InviterID string    `json:"inviter_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
