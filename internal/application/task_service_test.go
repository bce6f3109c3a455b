package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/taskflow-api/internal/domain/entity"
	"github.com/oksasatya/taskflow-api/internal/infrastructure/memory"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
)

type fakeIndex struct {
	docs    map[int64]string
	hits    []int64
	failAll bool
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[int64]string{}} }

func (f *fakeIndex) Index(_ context.Context, t *entity.Task) error {
	if f.failAll {
		return errors.New("index down")
	}
	f.docs[t.ID] = t.Title
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id int64) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, string, int) ([]int64, error) {
	if f.failAll {
		return nil, errors.New("index down")
	}
	return f.hits, nil
}

func newTaskService(index TaskIndex) *TaskService {
	return NewTaskService(memory.NewStore().Tasks(), index, helpers.NewNopLogger())
}

func ptr[T any](v T) *T { return &v }

func TestTaskService_CreateDefaults(t *testing.T) {
	s := newTaskService(nil)
	task, err := s.Create(context.Background(), "u1", CreateTaskInput{Title: "Write report"})
	require.NoError(t, err)
	assert.Equal(t, entity.PriorityMedium, task.Priority)
	assert.False(t, task.Completed)
	assert.NotZero(t, task.ID)
}

func TestTaskService_CreateValidation(t *testing.T) {
	s := newTaskService(nil)
	ctx := context.Background()

	var verr *ValidationError
	_, err := s.Create(ctx, "u1", CreateTaskInput{Title: "   "})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	_, err = s.Create(ctx, "u1", CreateTaskInput{Title: "x", Priority: "urgent"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "priority", verr.Field)
}

func TestTaskService_OwnerScoping(t *testing.T) {
	s := newTaskService(nil)
	ctx := context.Background()
	task, err := s.Create(ctx, "u1", CreateTaskInput{Title: "mine"})
	require.NoError(t, err)

	_, err = s.Get(ctx, "u2", task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "u2", task.ID), ErrTaskNotFound)
	_, err = s.Update(ctx, "u2", task.ID, UpdateTaskInput{Title: ptr("hijacked")})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_UpdatePartial(t *testing.T) {
	s := newTaskService(nil)
	ctx := context.Background()
	task, err := s.Create(ctx, "u1", CreateTaskInput{Title: "a", Description: ptr("keep me")})
	require.NoError(t, err)

	due := time.Now().Add(24 * time.Hour)
	got, err := s.Update(ctx, "u1", task.ID, UpdateTaskInput{Priority: ptr(entity.PriorityHigh), DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)
	assert.Equal(t, "keep me", *got.Description)
	assert.Equal(t, entity.PriorityHigh, got.Priority)

	_, err = s.Update(ctx, "u1", task.ID, UpdateTaskInput{Title: ptr("")})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTaskService_ListAndToggle(t *testing.T) {
	s := newTaskService(nil)
	ctx := context.Background()
	a, err := s.Create(ctx, "u1", CreateTaskInput{Title: "a"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "u1", CreateTaskInput{Title: "b"})
	require.NoError(t, err)

	toggled, err := s.ToggleComplete(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	done, err := s.List(ctx, "u1", ptr(true))
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, a.ID, done[0].ID)

	all, err := s.List(ctx, "u1", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].Title, "newest first")

	toggled, err = s.ToggleComplete(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
}

func TestTaskService_SearchWithIndex(t *testing.T) {
	idx := newFakeIndex()
	s := newTaskService(idx)
	ctx := context.Background()
	a, err := s.Create(ctx, "u1", CreateTaskInput{Title: "groceries"})
	require.NoError(t, err)
	assert.Equal(t, "groceries", idx.docs[a.ID])

	idx.hits = []int64{a.ID, 999}
	got, err := s.Search(ctx, "u1", "groc", 10)
	require.NoError(t, err)
	require.Len(t, got, 1, "stale ids are skipped")
	assert.Equal(t, a.ID, got[0].ID)

	require.NoError(t, s.Delete(ctx, "u1", a.ID))
	assert.NotContains(t, idx.docs, a.ID)
}

func TestTaskService_IndexFailureDoesNotFailWrites(t *testing.T) {
	idx := newFakeIndex()
	idx.failAll = true
	s := newTaskService(idx)
	_, err := s.Create(context.Background(), "u1", CreateTaskInput{Title: "a"})
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "u1", "a", 10)
	assert.Error(t, err)
}

func TestTaskService_SearchLocalFallback(t *testing.T) {
	s := newTaskService(nil)
	ctx := context.Background()
	_, err := s.Create(ctx, "u1", CreateTaskInput{Title: "Buy Milk"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "u1", CreateTaskInput{Title: "Call mom", Description: ptr("about milk prices")})
	require.NoError(t, err)
	_, err = s.Create(ctx, "u2", CreateTaskInput{Title: "milk for u2"})
	require.NoError(t, err)

	got, err := s.Search(ctx, "u1", "MILK", 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.Search(ctx, "u1", " ", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
