package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResetToken_IsValid(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		tok     ResetToken
		valid   bool
		expired bool
	}{
		{"fresh", ResetToken{ExpiresAt: now.Add(time.Hour)}, true, false},
		{"used", ResetToken{ExpiresAt: now.Add(time.Hour), Used: true}, false, false},
		{"expired", ResetToken{ExpiresAt: now.Add(-time.Second)}, false, true},
		{"expires exactly now", ResetToken{ExpiresAt: now}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.tok.IsValid(now))
			assert.Equal(t, tt.expired, tt.tok.IsExpired(now))
		})
	}
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&Task{}).IsOverdue(now))
	assert.True(t, (&Task{DueDate: &past}).IsOverdue(now))
	assert.False(t, (&Task{DueDate: &past, Completed: true}).IsOverdue(now))
	assert.False(t, (&Task{DueDate: &future}).IsOverdue(now))
}

func TestPriority_Valid(t *testing.T) {
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("urgent").Valid())
	assert.False(t, Priority("").Valid())
}
