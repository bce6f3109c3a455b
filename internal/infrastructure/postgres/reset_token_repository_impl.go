package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/taskflow-api/internal/domain/entity"
	"github.com/oksasatya/taskflow-api/internal/domain/repository"
)

type ResetTokenRepository struct {
	db DBTX
}

func NewResetTokenRepository(db DBTX) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// LockUser takes a transaction-scoped advisory lock keyed by the user id.
func (r *ResetTokenRepository) LockUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, userID)
	return err
}

func (r *ResetTokenRepository) FindByToken(ctx context.Context, token string) (*entity.ResetToken, error) {
	t := &entity.ResetToken{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id::text, token, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token = $1
		FOR UPDATE
	`, token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ResetTokenRepository) Insert(ctx context.Context, t *entity.ResetToken) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO password_reset_tokens (user_id, token, expires_at, used)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, t.UserID, t.Token, t.ExpiresAt, t.Used).Scan(&t.ID, &t.CreatedAt)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *ResetTokenRepository) MarkUsed(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `UPDATE password_reset_tokens SET used = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ResetTokenRepository) MarkAllUsedForUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.Exec(ctx, `
		UPDATE password_reset_tokens
		SET used = true
		WHERE user_id = $1 AND used = false
	`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.ResetTokenRepository = (*ResetTokenRepository)(nil)
