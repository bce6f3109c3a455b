package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskflow-api/internal/domain/entity"
	"github.com/oksasatya/taskflow-api/internal/domain/repository"
)

// TaskIndex is the optional full-text index over tasks.
type TaskIndex interface {
	Index(ctx context.Context, t *entity.Task) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, userID, query string, size int) ([]int64, error)
}

type TaskService struct {
	Repo   repository.TaskRepository
	Index  TaskIndex // nil disables search
	Logger *logrus.Logger
}

func NewTaskService(repo repository.TaskRepository, index TaskIndex, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: repo, Index: index, Logger: logger}
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Completed   bool
	DueDate     *time.Time
	Priority    entity.Priority
}

// UpdateTaskInput applies only the non-nil fields.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
	Priority    *entity.Priority
}

func validateTitle(title string) *ValidationError {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "Task title cannot be empty"}
	}
	return nil
}

func validatePriority(p entity.Priority) *ValidationError {
	if !p.Valid() {
		return &ValidationError{Field: "priority", Reason: "Priority must be one of low, medium, high"}
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*entity.Task, error) {
	if verr := validateTitle(in.Title); verr != nil {
		return nil, verr
	}
	if in.Priority == "" {
		in.Priority = entity.PriorityMedium
	}
	if verr := validatePriority(in.Priority); verr != nil {
		return nil, verr
	}
	t := &entity.Task{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.Logger.WithFields(logrus.Fields{"task_id": t.ID, "user_id": userID}).Info("task created")
	s.index(ctx, t)
	return t, nil
}

func (s *TaskService) List(ctx context.Context, userID string, completed *bool) ([]*entity.Task, error) {
	tasks, err := s.Repo.ListByUser(ctx, userID, completed)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID string, id int64) (*entity.Task, error) {
	t, err := s.Repo.GetByIDAndUser(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, userID string, id int64, in UpdateTaskInput) (*entity.Task, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if verr := validateTitle(*in.Title); verr != nil {
			return nil, verr
		}
		t.Title = *in.Title
	}
	if in.Priority != nil {
		if verr := validatePriority(*in.Priority); verr != nil {
			return nil, verr
		}
		t.Priority = *in.Priority
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	return s.save(ctx, t)
}

// ToggleComplete flips the completion flag.
func (s *TaskService) ToggleComplete(ctx context.Context, userID string, id int64) (*entity.Task, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	return s.save(ctx, t)
}

func (s *TaskService) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.Repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Logger.WithFields(logrus.Fields{"task_id": id, "user_id": userID}).Warn("attempted to delete non-existent task")
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("task_id", id).Warn("task index remove failed")
		}
	}
	return nil
}

// Search runs a full-text query over the user's tasks. Without an index it
// falls back to a case-insensitive title/description match.
func (s *TaskService) Search(ctx context.Context, userID, query string, size int) ([]*entity.Task, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []*entity.Task{}, nil
	}
	if s.Index == nil {
		return s.searchLocal(ctx, userID, query, size)
	}
	ids, err := s.Index.Search(ctx, userID, query, size)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	out := make([]*entity.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.Repo.GetByIDAndUser(ctx, id, userID)
		if errors.Is(err, repository.ErrNotFound) {
			continue // stale index entry
		}
		if err != nil {
			return nil, fmt.Errorf("load task: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *TaskService) searchLocal(ctx context.Context, userID, query string, size int) ([]*entity.Task, error) {
	tasks, err := s.List(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := make([]*entity.Task, 0)
	for _, t := range tasks {
		desc := ""
		if t.Description != nil {
			desc = *t.Description
		}
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(desc), q) {
			out = append(out, t)
			if len(out) == size {
				break
			}
		}
	}
	return out, nil
}

func (s *TaskService) save(ctx context.Context, t *entity.Task) (*entity.Task, error) {
	if err := s.Repo.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.index(ctx, t)
	return t, nil
}

func (s *TaskService) index(ctx context.Context, t *entity.Task) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, t); err != nil {
		s.Logger.WithError(err).WithField("task_id", t.ID).Warn("task index failed")
	}
}
