package domain

import (
	"time"

	authdomain "kanban-backend/internal/auth/domain"
	teamdomain "kanban-backend/internal/team/domain"
)

// Board is the single board owned by a team. It is the aggregate root that
// is serialized after every mutation.
type Board struct {
	ID        string           `json:"id" gorm:"primaryKey"`
	TeamID    string           `json:"team_id" gorm:"uniqueIndex;not null"`
	Team      *teamdomain.Team `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Columns   []Column         `json:"columns,omitempty" gorm:"foreignKey:BoardID"`
	CreatedAt time.Time        `json:"created_at"`
}

// Column is ordered by Sequence within its board.
type Column struct {
	ID       string   `json:"id" gorm:"primaryKey"`
	BoardID  string   `json:"board_id" gorm:"index;not null"`
	Title    string   `json:"title" gorm:"size:100;not null"`
	Sequence int      `json:"sequence" gorm:"not null"`
	Tickets  []Ticket `json:"tickets,omitempty" gorm:"foreignKey:ColumnID"`
}

// Ticket is ordered by Sequence within its column.
type Ticket struct {
	ID         string           `json:"id" gorm:"primaryKey"`
	ColumnID   string           `json:"column_id" gorm:"index;not null"`
	Title      string           `json:"title" gorm:"size:100;not null"`
	Tag        Tag              `json:"tag" gorm:"size:8;not null"`
	AssigneeID *string          `json:"assignee_id,omitempty" gorm:"index"`
	Assignee   *authdomain.User `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`
	WorkAmount float64          `json:"work_amount" gorm:"not null;default:0"`
	DueDate    time.Time        `json:"due_date" gorm:"type:date"`
	Sequence   int              `json:"sequence" gorm:"not null"`
}

// Destination names the column a ticket moves into. ColumnID wins when set;
// otherwise Position is the column's current sequence within the board.
type Destination struct {
	ColumnID string
	Position int
}

// TicketFields carries the editable ticket attributes. Nil fields are left unchanged.
type TicketFields struct {
	Title      *string
	Tag        *Tag
	AssigneeID *string
	// ClearAssignee removes the assignee when set.
	ClearAssignee bool
	WorkAmount    *float64
	DueDate       *time.Time
}

func (Column) TableName() string {
	return "board_columns"
}
