package entity

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task belongs to exactly one user.
type Task struct {
	ID          int64
	UserID      string
	Title       string
	Description *string
	Completed   bool
	DueDate     *time.Time
	Priority    Priority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOverdue is true for incomplete tasks whose due date has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && !t.Completed && now.After(*t.DueDate)
}
