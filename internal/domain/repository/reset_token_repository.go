package repository

import (
	"context"

	"github.com/oksasatya/taskflow-api/internal/domain/entity"
)

// ResetTokenRepository persists password reset tokens. Methods are meant to be
// called on the Repositories handed out by Store.WithTx.
type ResetTokenRepository interface {
	// LockUser serializes token issuance and redemption for one user until the
	// surrounding transaction ends.
	LockUser(ctx context.Context, userID string) error
	// FindByToken looks up by exact token string and locks the row.
	FindByToken(ctx context.Context, token string) (*entity.ResetToken, error)
	Insert(ctx context.Context, t *entity.ResetToken) error
	MarkUsed(ctx context.Context, id int64) error
	// MarkAllUsedForUser invalidates every unused token of the user and
	// returns how many were touched.
	MarkAllUsedForUser(ctx context.Context, userID string) (int64, error)
}
