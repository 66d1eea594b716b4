package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/taxpayer-registry/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner runs callbacks inside a PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner on pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run begins a transaction, runs fn with repositories bound to it and commits.
// Any error rolls the whole transaction back.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", mapPostgresError(err))
	}
	return nil
}

// RunBatch wraps every call of fn in a savepoint (a nested pgx transaction)
// of one outer transaction, which commits once at the end.
func (r *TxRunner) RunBatch(ctx context.Context, n int, fn func(i int, repos ports.Repositories) error) ([]error, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	errs := make([]error, n)
	for i := 0; i < n; i++ {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("savepoint %d: %w", i, err)
		}
		if err := fn(i, NewRepositories(sp)); err != nil {
			errs[i] = err
			if rbErr := sp.Rollback(ctx); rbErr != nil {
				return nil, fmt.Errorf("rollback savepoint %d: %w", i, rbErr)
			}
			continue
		}
		if err := sp.Commit(ctx); err != nil {
			return nil, fmt.Errorf("release savepoint %d: %w", i, mapPostgresError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", mapPostgresError(err))
	}
	return errs, nil
}
