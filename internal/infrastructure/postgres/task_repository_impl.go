package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/taskflow-api/internal/domain/entity"
	"github.com/oksasatya/taskflow-api/internal/domain/repository"
)

const taskColumns = `id, user_id::text, title, description, completed, due_date, priority, created_at, updated_at`

type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title, description, completed, due_date, priority)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, t.UserID, t.Title, t.Description, t.Completed, t.DueDate, string(t.Priority)).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string, completed *bool) ([]*entity.Task, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []*entity.Task{}, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1 AND ($2::boolean IS NULL OR completed = $2)
		ORDER BY created_at DESC, id DESC
	`, userID, completed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaskRepository) GetByIDAndUser(ctx context.Context, id int64, userID string) (*entity.Task, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, repository.ErrNotFound
	}
	t, err := scanTask(r.db.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return t, err
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	err := r.db.QueryRow(ctx, `
		UPDATE tasks
		SET title = $3, description = $4, completed = $5, due_date = $6, priority = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`, t.ID, t.UserID, t.Title, t.Description, t.Completed, t.DueDate, string(t.Priority)).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, id int64, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	t := &entity.Task{}
	var priority string
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.DueDate, &priority,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Priority = entity.Priority(priority)
	return t, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
