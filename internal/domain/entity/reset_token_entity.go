package entity

import "time"

// ResetToken is a single-use authorization to change one user's password.
// Rows are never deleted; used tokens stay as an audit trail.
type ResetToken struct {
	ID        int64
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// IsValid reports whether the token is unused and not yet expired at now.
func (t *ResetToken) IsValid(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// IsExpired reports whether now is at or past the expiry instant.
func (t *ResetToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
