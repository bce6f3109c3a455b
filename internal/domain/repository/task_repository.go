package repository

import (
	"context"

	"github.com/oksasatya/taskflow-api/internal/domain/entity"
)

// TaskRepository scopes every operation to the owning user.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	// ListByUser returns the user's tasks, newest first. A nil completed
	// filter returns all of them.
	ListByUser(ctx context.Context, userID string, completed *bool) ([]*entity.Task, error)
	GetByIDAndUser(ctx context.Context, id int64, userID string) (*entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id int64, userID string) error
}
