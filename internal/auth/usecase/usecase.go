package usecase

import (
	"context"

	authdomain "kanban-backend/internal/auth/domain"
	authdto "kanban-backend/internal/auth/dto"
)

// AuthUsecase defines the interface for account and token business logic
type AuthUsecase interface {
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdomain.User, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error)
	// Logout revokes a refresh token belonging to userID
	Logout(ctx context.Context, userID, refreshToken string) error
	// ValidateToken resolves the user behind an access token
	ValidateToken(ctx context.Context, accessToken string) (*authdomain.User, error)
}
