package ports

import (
	"context"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

type AuthService interface {
	Signup(ctx context.Context, username, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	TokenVerifier
}

// TokenVerifier turns a bearer token back into the identity it was issued for.
type TokenVerifier interface {
	VerifyToken(token string) (*domain.Identity, error)
}
