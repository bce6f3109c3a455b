package repository

import "context"

// Repositories groups the repositories bound to one connection or transaction.
type Repositories interface {
	Users() UserRepository
	ResetTokens() ResetTokenRepository
	Tasks() TaskRepository
}

// Store hands out repositories and runs units of work atomically.
//
// WithTx commits when fn returns nil and rolls back otherwise, so every write
// made through tx is applied together or not at all.
type Store interface {
	Repositories
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error
}
