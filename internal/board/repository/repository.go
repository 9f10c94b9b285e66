package repository

import (
	"context"

	boarddomain "kanban-backend/internal/board/domain"
)

// BoardRepository defines the interface for board persistence. Every method
// that changes a board runs as one transaction holding that board's lock, so
// sequence values inside the board stay 1..n per scope.
type BoardRepository interface {
	// FindByTeam returns nil, nil when the team has no board
	FindByTeam(ctx context.Context, teamID string) (*boarddomain.Board, error)
	ListBoards(ctx context.Context) ([]boarddomain.Board, error)
	// LoadAggregate returns the board with its team, columns, tickets and
	// assignees, columns and tickets ordered by sequence.
	LoadAggregate(ctx context.Context, boardID string) (*boarddomain.Board, error)

	CreateColumn(ctx context.Context, boardID, title string) (*boarddomain.Column, error)
	// UpdateColumn applies a nil title or to as "unchanged".
	UpdateColumn(ctx context.Context, boardID, columnID string, title *string, to *int) error
	ReorderColumn(ctx context.Context, boardID, columnID string, to int) error
	// ReorderColumnAt addresses the column by its current sequence.
	ReorderColumnAt(ctx context.Context, boardID string, from, to int) error
	DeleteColumn(ctx context.Context, boardID, columnID string) error

	CreateTicket(ctx context.Context, boardID string, ticket *boarddomain.Ticket) error
	UpdateTicket(ctx context.Context, boardID, ticketID string, fields boarddomain.TicketFields) error
	ReorderTicket(ctx context.Context, boardID, ticketID string, to int) error
	MoveTicket(ctx context.Context, boardID, ticketID string, dest boarddomain.Destination, to int) error
	DeleteTicket(ctx context.Context, boardID, ticketID string) error
}
