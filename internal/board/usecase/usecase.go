package usecase

import (
	"context"

	authdomain "kanban-backend/internal/auth/domain"
	boarddomain "kanban-backend/internal/board/domain"
	boarddto "kanban-backend/internal/board/dto"
	teamdomain "kanban-backend/internal/team/domain"
)

// BoardUsecase defines the interface for board business logic. Every call acts
// on the board of the caller's team and mutations return the refreshed board.
type BoardUsecase interface {
	GetBoard(ctx context.Context, userID string) (*boarddto.BoardView, error)

	CreateColumn(ctx context.Context, userID, title string) (*boarddto.BoardView, error)
	UpdateColumn(ctx context.Context, userID, columnID string, req *boarddto.UpdateColumnRequest) (*boarddto.BoardView, error)
	ReorderColumnAt(ctx context.Context, userID string, from, to int) (*boarddto.BoardView, error)
	DeleteColumn(ctx context.Context, userID, columnID string) (*boarddto.BoardView, error)

	CreateTicket(ctx context.Context, userID string, req *boarddto.CreateTicketRequest) (*boarddto.BoardView, error)
	UpdateTicket(ctx context.Context, userID, ticketID string, req *boarddto.UpdateTicketRequest) (*boarddto.BoardView, error)
	ReorderTicket(ctx context.Context, userID, ticketID string, to int) (*boarddto.BoardView, error)
	MoveTicket(ctx context.Context, userID, ticketID string, dest boarddomain.Destination, to int) (*boarddto.BoardView, error)
	DeleteTicket(ctx context.Context, userID, ticketID string) (*boarddto.BoardView, error)

	// PreloadAll writes every board to the cache and returns how many were stored.
	PreloadAll(ctx context.Context) (int, error)
}

// MembershipReader resolves which team a user belongs to.
type MembershipReader interface {
	MembershipOf(ctx context.Context, userID string) (*teamdomain.Membership, error)
}

// UserFinder looks up assignees by username.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*authdomain.User, error)
}
