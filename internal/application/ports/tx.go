package ports

import (
	"context"

	"github.com/jhoicas/taxpayer-registry/internal/domain/repository"
)

// Repositories groups the repositories bound to one open transaction.
type Repositories struct {
	Users         repository.UserRepository
	Organizations repository.OrganizationRepository
	Taxpayers     repository.TaxpayerRepository
	AuditLogs     repository.AuditLogRepository
}

// TxRunner runs callbacks inside a store transaction.
type TxRunner interface {
	// Run commits when fn returns nil and rolls back every write otherwise.
	Run(ctx context.Context, fn func(repos Repositories) error) error

	// RunBatch calls fn once per item inside a single transaction. Each call runs
	// in its own savepoint: a failing item is rolled back alone and its error is
	// stored at the same index of the returned slice. The transaction commits once
	// after the last item. The second return value is set only when the
	// transaction itself could not begin or commit.
	RunBatch(ctx context.Context, n int, fn func(i int, repos Repositories) error) ([]error, error)
}
