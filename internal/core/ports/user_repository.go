package ports

import (
	"context"

	"github.com/dhkim93/session-auth/internal/core/domain"
)

// UserRepository defines the interface for user account persistence. The
// store is authoritative for email uniqueness: Create surfaces a race on
// duplicate registration as domain.ErrEmailTaken.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when no account matches.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
