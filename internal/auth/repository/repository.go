package repository

import (
	"context"

	authdomain "kanban-backend/internal/auth/domain"
)

// UserRepository defines the interface for account persistence
type UserRepository interface {
	Create(ctx context.Context, user *authdomain.User) error
	// FindByUsername returns nil, nil when no user matches
	FindByUsername(ctx context.Context, username string) (*authdomain.User, error)
	// FindByID returns nil, nil when no user matches
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
	Update(ctx context.Context, user *authdomain.User) error

	SaveRefreshToken(ctx context.Context, token *authdomain.RefreshToken) error
	// RevokeRefreshToken deletes an unexpired token owned by userID and reports
	// whether a row was removed. Only one caller can revoke a given token.
	RevokeRefreshToken(ctx context.Context, userID, token string) (bool, error)
}
