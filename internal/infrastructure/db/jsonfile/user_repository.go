package jsonfile

import (
	"context"
	"time"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

const usersCollection = "users"

// fileUser is the on-disk shape of a user. The password field holds the bcrypt
// hash, matching files written by earlier versions of the service.
type fileUser struct {
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type UserRepository struct {
	users *Collection[fileUser]
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{users: NewCollection[fileUser](store, usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.users.Update(ctx, func(users []fileUser) ([]fileUser, error) {
		for _, u := range users {
			if u.Username == user.Username {
				return nil, domain.ErrUserExists
			}
		}
		return append(users, fileUser{
			Username:  user.Username,
			Password:  user.PasswordHash,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt,
		}), nil
	})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	users, err := r.users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username {
			du := u.toDomain()
			return &du, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (u fileUser) toDomain() domain.User {
	return domain.User{
		Username:     u.Username,
		PasswordHash: u.Password,
		Role:         domain.Role(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}
