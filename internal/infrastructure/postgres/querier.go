package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/taxpayer-registry/internal/application/ports"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx, so the same repository
// code runs on the pool or inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepositories binds every repository to q.
func NewRepositories(q Querier) ports.Repositories {
	return ports.Repositories{
		Users:         NewUserRepository(q),
		Organizations: NewOrganizationRepository(q),
		Taxpayers:     NewTaxpayerRepository(q),
		AuditLogs:     NewAuditLogRepository(q),
	}
}
