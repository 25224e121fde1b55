package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/notekeeper/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint (user email) is violated.
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByVerificationToken(ctx context.Context, tokenHash string) (*entity.User, error)
	GetByResetToken(ctx context.Context, tokenHash string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
