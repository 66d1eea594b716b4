// Package memory is an in-process implementation of the repositories and the
// transaction runner. It backs the "memory" storage driver and the service tests.
//
// Transactions are serialized: a transaction works on a private copy of the
// committed state and swaps it in on commit, so readers outside the
// transaction never observe partial writes.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/taxpayer-registry/internal/application/ports"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

type state struct {
	users     map[string]*entity.User
	orgs      map[string]*entity.Organization
	taxpayers map[string]*entity.Taxpayer
	audit     []*entity.AuditLog
}

func newState() *state {
	return &state{
		users:     map[string]*entity.User{},
		orgs:      map[string]*entity.Organization{},
		taxpayers: map[string]*entity.Taxpayer{},
	}
}

// clone copies the maps and every mutable record. Audit entries are never
// mutated after append, so only the slice is copied.
func (s *state) clone() *state {
	c := &state{
		users:     make(map[string]*entity.User, len(s.users)),
		orgs:      make(map[string]*entity.Organization, len(s.orgs)),
		taxpayers: make(map[string]*entity.Taxpayer, len(s.taxpayers)),
		audit:     append([]*entity.AuditLog(nil), s.audit...),
	}
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.orgs {
		o := *v
		c.orgs[k] = &o
	}
	for k, v := range s.taxpayers {
		c.taxpayers[k] = v.Clone()
	}
	return c
}

// Store owns the committed state.
type Store struct {
	txMu sync.Mutex // one writer at a time
	mu   sync.RWMutex
	st   *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

// accessor gives a repository read and write access to some state.
type accessor interface {
	view(ctx context.Context, fn func(*state) error) error
	update(ctx context.Context, fn func(*state) error) error
}

// committed auto-commits every write.
type committed struct{ s *Store }

func (c committed) view(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return fn(c.s.st)
}

func (c committed) update(ctx context.Context, fn func(*state) error) error {
	return c.s.run(ctx, fn)
}

// working is the private state of an open transaction.
type working struct{ st *state }

func (w working) view(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(w.st)
}

func (w working) update(ctx context.Context, fn func(*state) error) error {
	return w.view(ctx, fn)
}

func repositories(a accessor) ports.Repositories {
	return ports.Repositories{
		Users:         &UserRepo{a: a},
		Organizations: &OrganizationRepo{a: a},
		Taxpayers:     &TaxpayerRepo{a: a},
		AuditLogs:     &AuditLogRepo{a: a},
	}
}

// Repositories returns auto-committing repositories over the store.
// They must not be used from inside Run or RunBatch.
func (s *Store) Repositories() ports.Repositories {
	return repositories(committed{s: s})
}

// Run executes fn against a private copy of the state and commits it when fn succeeds.
func (s *Store) Run(ctx context.Context, fn func(repos ports.Repositories) error) error {
	return s.run(ctx, func(work *state) error {
		return fn(repositories(working{st: work}))
	})
}

func (s *Store) run(ctx context.Context, fn func(*state) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// RunBatch runs fn for every index in one transaction, rolling back failing
// items individually.
func (s *Store) RunBatch(ctx context.Context, n int, fn func(i int, repos ports.Repositories) error) ([]error, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	errs := make([]error, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		savepoint := work.clone()
		if err := fn(i, repositories(working{st: savepoint})); err != nil {
			errs[i] = err
			continue
		}
		work = savepoint
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return errs, nil
}
