package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/taskflow-api/internal/domain/entity"
	"github.com/oksasatya/taskflow-api/internal/domain/repository"
)

func TestUsers_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	u := &entity.User{ID: "u1", Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, s.Users().Insert(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.Users().FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = s.Users().FindByEmail(ctx, "A@x.com")
	require.ErrorIs(t, err, repository.ErrNotFound, "email match is case-sensitive")

	err = s.Users().Insert(ctx, &entity.User{ID: "u2", Email: "a@x.com", PasswordHash: "h"})
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUsers_UpdatePasswordHash(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	require.NoError(t, s.Users().Insert(ctx, &entity.User{ID: "u1", Email: "a@x.com", PasswordHash: "old"}))

	s.now = func() time.Time { return base.Add(time.Minute) }
	require.NoError(t, s.Users().UpdatePasswordHash(ctx, "u1", "new"))

	got, err := s.Users().FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.PasswordHash)
	assert.Equal(t, base.Add(time.Minute), got.UpdatedAt)
	assert.Equal(t, base, got.CreatedAt)

	require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, "missing", "x"), repository.ErrNotFound)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		require.NoError(t, tx.Users().Insert(ctx, &entity.User{ID: "u1", Email: "a@x.com", PasswordHash: "h"}))
		_, err := tx.Users().FindByID(ctx, "u1")
		require.NoError(t, err, "writes are visible inside the transaction")
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().FindByID(ctx, "u1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWithTx_Commit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		return tx.Users().Insert(ctx, &entity.User{ID: "u1", Email: "a@x.com", PasswordHash: "h"})
	})
	require.NoError(t, err)

	_, err = s.Users().FindByID(ctx, "u1")
	require.NoError(t, err)
}

func TestWithTx_CanceledContextRollsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewStore()

	err := s.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		require.NoError(t, tx.Users().Insert(ctx, &entity.User{ID: "u1", Email: "a@x.com", PasswordHash: "h"}))
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.Users().FindByID(context.Background(), "u1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestResetTokens_MarkAllUsedForUser(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	exp := time.Now().Add(time.Hour)

	for _, tok := range []string{"t1", "t2"} {
		require.NoError(t, s.ResetTokens().Insert(ctx, &entity.ResetToken{UserID: "u1", Token: tok, ExpiresAt: exp}))
	}
	require.NoError(t, s.ResetTokens().Insert(ctx, &entity.ResetToken{UserID: "u2", Token: "t3", ExpiresAt: exp}))

	n, err := s.ResetTokens().MarkAllUsedForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	other, err := s.ResetTokens().FindByToken(ctx, "t3")
	require.NoError(t, err)
	assert.False(t, other.Used)

	err = s.ResetTokens().Insert(ctx, &entity.ResetToken{UserID: "u2", Token: "t3", ExpiresAt: exp})
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestTasks_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a := &entity.Task{UserID: "u1", Title: "first", Priority: entity.PriorityLow}
	b := &entity.Task{UserID: "u1", Title: "second", Priority: entity.PriorityHigh, Completed: true}
	c := &entity.Task{UserID: "u2", Title: "other", Priority: entity.PriorityMedium}
	for _, tk := range []*entity.Task{a, b, c} {
		require.NoError(t, s.Tasks().Create(ctx, tk))
	}

	all, err := s.Tasks().ListByUser(ctx, "u1", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Title, "newest first")

	done := true
	completed, err := s.Tasks().ListByUser(ctx, "u1", &done)
	require.NoError(t, err)
	require.Len(t, completed, 1)

	_, err = s.Tasks().GetByIDAndUser(ctx, c.ID, "u1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, s.Tasks().Delete(ctx, c.ID, "u1"), repository.ErrNotFound)

	a.Title = "renamed"
	require.NoError(t, s.Tasks().Update(ctx, a))
	got, err := s.Tasks().GetByIDAndUser(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	require.NoError(t, s.Tasks().Delete(ctx, a.ID, "u1"))
	_, err = s.Tasks().GetByIDAndUser(ctx, a.ID, "u1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
