package ports

import (
	"context"

	"github.com/dhkim93/session-auth/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, fullname, email, password string) (*domain.User, domain.TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, domain.TokenPair, error)
	// Refresh validates a refresh token, re-confirms the referenced account
	// still exists, and mints a replacement access token. The refresh token
	// itself is never rotated.
	Refresh(ctx context.Context, refreshToken string) (string, *domain.User, error)
	FindUser(ctx context.Context, id string) (*domain.User, error)
}
