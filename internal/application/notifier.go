package application

import "context"

// Delivery reports whether the mail transport accepted a message.
type Delivery struct {
	Delivered bool
}

// Notifier sends account emails. Implementations never return errors:
// failure is reported through Delivery so the reset flow can degrade.
type Notifier interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) Delivery
}
