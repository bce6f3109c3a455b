package application

import (
	"errors"
	"unicode/utf8"

	"github.com/oksasatya/taskflow-api/pkg/helpers"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	// ErrUnauthenticated covers both unknown email and wrong password.
	ErrUnauthenticated = errors.New("incorrect email or password")
	// ErrInvalidOrExpiredToken covers unknown, expired and used reset tokens.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	ErrUserNotFound          = errors.New("user not found")
	ErrTaskNotFound          = errors.New("task not found")
)

// ValidationError describes malformed input. Its reason is safe to show.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

const minPasswordChars = 8

// ValidatePassword enforces 8 to 72: at least 8 characters and at most 72
// UTF-8 bytes, the bcrypt input limit.
func ValidatePassword(p string) *ValidationError {
	if utf8.RuneCountInString(p) < minPasswordChars {
		return &ValidationError{Field: "password", Reason: "Password must be at least 8 characters long"}
	}
	if len(p) > helpers.MaxPasswordBytes {
		return &ValidationError{Field: "password", Reason: "Password must not exceed 72 bytes"}
	}
	return nil
}
