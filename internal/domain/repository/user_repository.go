package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/taskflow-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	// Insert stores u and fills its timestamps. A taken email yields ErrDuplicate.
	Insert(ctx context.Context, u *entity.User) error
	// UpdatePasswordHash overwrites the hash and refreshes updated_at.
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
