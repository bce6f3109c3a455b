package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// PasswordHash always holds a bcrypt hash, never the raw password.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
