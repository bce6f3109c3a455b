// Package memory is an in-process repository.Store used by tests and by
// STORAGE=memory for local runs. Transactions serialize on a single mutex and
// work on a copy of the data that is swapped in on commit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/taskflow-api/internal/domain/entity"
	"github.com/oksasatya/taskflow-api/internal/domain/repository"
)

type state struct {
	users       map[string]entity.User
	emails      map[string]string
	tokens      map[int64]entity.ResetToken
	byToken     map[string]int64
	tasks       map[int64]entity.Task
	nextTokenID int64
	nextTaskID  int64
}

func newState() *state {
	return &state{
		users:   map[string]entity.User{},
		emails:  map[string]string{},
		tokens:  map[int64]entity.ResetToken{},
		byToken: map[string]int64{},
		tasks:   map[int64]entity.Task{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.emails {
		c.emails[k] = v
	}
	for k, v := range s.tokens {
		c.tokens[k] = v
	}
	for k, v := range s.byToken {
		c.byToken[k] = v
	}
	for k, v := range s.tasks {
		c.tasks[k] = v
	}
	c.nextTokenID = s.nextTokenID
	c.nextTaskID = s.nextTaskID
	return c
}

// Store implements repository.Store in memory.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{state: newState(), now: time.Now}
}

// view runs operations either against a transaction snapshot (already
// protected by the store mutex) or against the live state under the mutex.
type view struct {
	s  *Store
	tx *state
}

func (v view) with(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.state)
}

func (v view) Users() repository.UserRepository             { return userRepo{v} }
func (v view) ResetTokens() repository.ResetTokenRepository { return tokenRepo{v} }
func (v view) Tasks() repository.TaskRepository             { return taskRepo{v} }

func (s *Store) Users() repository.UserRepository             { return view{s: s}.Users() }
func (s *Store) ResetTokens() repository.ResetTokenRepository { return view{s: s}.ResetTokens() }
func (s *Store) Tasks() repository.TaskRepository             { return view{s: s}.Tasks() }

// WithTx holds the store lock for the whole of fn. fn must only use tx;
// calling the Store's own repositories from inside fn deadlocks.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repositories) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.state.clone()
	if err := fn(ctx, view{s: s, tx: snapshot}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = snapshot
	return nil
}

type userRepo struct{ v view }

func (r userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.v.with(func(st *state) error {
		id, ok := st.emails[email]
		if !ok {
			return repository.ErrNotFound
		}
		u := st.users[id]
		out = &u
		return nil
	})
	return out, err
}

func (r userRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r userRepo) Insert(_ context.Context, u *entity.User) error {
	return r.v.with(func(st *state) error {
		if _, taken := st.emails[u.Email]; taken {
			return repository.ErrDuplicate
		}
		if _, taken := st.users[u.ID]; taken {
			return repository.ErrDuplicate
		}
		now := r.v.s.now()
		u.CreatedAt, u.UpdatedAt = now, now
		st.users[u.ID] = *u
		st.emails[u.Email] = u.ID
		return nil
	})
}

func (r userRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	return r.v.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		u.PasswordHash = hash
		u.UpdatedAt = r.v.s.now()
		st.users[id] = u
		return nil
	})
}

type tokenRepo struct{ v view }

// LockUser is a no-op: a transaction already holds the store-wide lock.
func (r tokenRepo) LockUser(context.Context, string) error { return nil }

func (r tokenRepo) FindByToken(_ context.Context, token string) (*entity.ResetToken, error) {
	var out *entity.ResetToken
	err := r.v.with(func(st *state) error {
		id, ok := st.byToken[token]
		if !ok {
			return repository.ErrNotFound
		}
		t := st.tokens[id]
		out = &t
		return nil
	})
	return out, err
}

func (r tokenRepo) Insert(_ context.Context, t *entity.ResetToken) error {
	return r.v.with(func(st *state) error {
		if _, taken := st.byToken[t.Token]; taken {
			return repository.ErrDuplicate
		}
		st.nextTokenID++
		t.ID = st.nextTokenID
		t.CreatedAt = r.v.s.now()
		st.tokens[t.ID] = *t
		st.byToken[t.Token] = t.ID
		return nil
	})
}

func (r tokenRepo) MarkUsed(_ context.Context, id int64) error {
	return r.v.with(func(st *state) error {
		t, ok := st.tokens[id]
		if !ok {
			return repository.ErrNotFound
		}
		t.Used = true
		st.tokens[id] = t
		return nil
	})
}

func (r tokenRepo) MarkAllUsedForUser(_ context.Context, userID string) (int64, error) {
	var n int64
	err := r.v.with(func(st *state) error {
		for id, t := range st.tokens {
			if t.UserID == userID && !t.Used {
				t.Used = true
				st.tokens[id] = t
				n++
			}
		}
		return nil
	})
	return n, err
}

type taskRepo struct{ v view }

func (r taskRepo) Create(_ context.Context, t *entity.Task) error {
	return r.v.with(func(st *state) error {
		st.nextTaskID++
		now := r.v.s.now()
		t.ID = st.nextTaskID
		t.CreatedAt, t.UpdatedAt = now, now
		st.tasks[t.ID] = *t
		return nil
	})
}

func (r taskRepo) ListByUser(_ context.Context, userID string, completed *bool) ([]*entity.Task, error) {
	out := make([]*entity.Task, 0)
	err := r.v.with(func(st *state) error {
		for _, t := range st.tasks {
			if t.UserID != userID {
				continue
			}
			if completed != nil && t.Completed != *completed {
				continue
			}
			cp := t
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, err
}

func (r taskRepo) GetByIDAndUser(_ context.Context, id int64, userID string) (*entity.Task, error) {
	var out *entity.Task
	err := r.v.with(func(st *state) error {
		t, ok := st.tasks[id]
		if !ok || t.UserID != userID {
			return repository.ErrNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

func (r taskRepo) Update(_ context.Context, t *entity.Task) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.tasks[t.ID]
		if !ok || cur.UserID != t.UserID {
			return repository.ErrNotFound
		}
		t.CreatedAt = cur.CreatedAt
		t.UpdatedAt = r.v.s.now()
		st.tasks[t.ID] = *t
		return nil
	})
}

func (r taskRepo) Delete(_ context.Context, id int64, userID string) error {
	return r.v.with(func(st *state) error {
		t, ok := st.tasks[id]
		if !ok || t.UserID != userID {
			return repository.ErrNotFound
		}
		delete(st.tasks, id)
		return nil
	})
}

var _ repository.Store = (*Store)(nil)
