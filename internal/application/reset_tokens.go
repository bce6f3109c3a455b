package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oksasatya/taskflow-api/internal/domain/entity"
	"github.com/oksasatya/taskflow-api/internal/domain/repository"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
)

type RedeemStatus int

const (
	RedeemOK RedeemStatus = iota
	RedeemNotFound
	RedeemExpired
	RedeemAlreadyUsed
)

func (s RedeemStatus) String() string {
	switch s {
	case RedeemOK:
		return "ok"
	case RedeemNotFound:
		return "not_found"
	case RedeemExpired:
		return "expired"
	case RedeemAlreadyUsed:
		return "already_used"
	default:
		return fmt.Sprintf("RedeemStatus(%d)", int(s))
	}
}

// ResetTokenStore issues and redeems password reset tokens. Both operations
// must run on the Repositories of one Store.WithTx call.
type ResetTokenStore struct {
	TTL time.Duration
	now func() time.Time
	gen func() (string, error)
}

func NewResetTokenStore(ttl time.Duration) *ResetTokenStore {
	return &ResetTokenStore{
		TTL: ttl,
		now: time.Now,
		gen: func() (string, error) { return helpers.GenToken(helpers.ResetTokenBytes) },
	}
}

// Issue invalidates every unused token of the user and stores a fresh one.
// The per-user lock keeps concurrent issuers from leaving two valid tokens.
func (s *ResetTokenStore) Issue(ctx context.Context, tx repository.Repositories, userID string) (*entity.ResetToken, error) {
	repo := tx.ResetTokens()
	if err := repo.LockUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("lock user: %w", err)
	}
	if _, err := repo.MarkAllUsedForUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("invalidate reset tokens: %w", err)
	}
	tok, err := s.gen()
	if err != nil {
		return nil, fmt.Errorf("generate reset token: %w", err)
	}
	t := &entity.ResetToken{
		UserID:    userID,
		Token:     tok,
		ExpiresAt: s.now().Add(s.TTL),
	}
	if err := repo.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("insert reset token: %w", err)
	}
	return t, nil
}

// Redeem marks a valid token used. The lookup locks the row, so of two
// concurrent redemptions one gets RedeemOK and the other RedeemAlreadyUsed.
func (s *ResetTokenStore) Redeem(ctx context.Context, tx repository.Repositories, token string) (*entity.ResetToken, RedeemStatus, error) {
	repo := tx.ResetTokens()
	t, err := repo.FindByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, RedeemNotFound, nil
	}
	if err != nil {
		return nil, RedeemNotFound, fmt.Errorf("find reset token: %w", err)
	}
	if !t.IsValid(s.now()) {
		if t.Used {
			return t, RedeemAlreadyUsed, nil
		}
		return t, RedeemExpired, nil
	}
	if err := repo.MarkUsed(ctx, t.ID); err != nil {
		return nil, RedeemNotFound, fmt.Errorf("mark reset token used: %w", err)
	}
	t.Used = true
	return t, RedeemOK, nil
}
