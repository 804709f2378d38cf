package ports

import (
	"context"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create appends a user. It returns domain.ErrUserExists when the
	// username is already taken.
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
