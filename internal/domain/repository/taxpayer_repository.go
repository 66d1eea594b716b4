package repository

import (
	"context"
	"time"

	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/domain/policy"
)

// TaxpayerFilter holds the predicates of a taxpayer query. Zero values mean "no predicate".
type TaxpayerFilter struct {
	Scope         policy.Scope
	State         *entity.Region
	TaxType       *entity.TaxType
	Status        *entity.TaxpayerStatus // nil excludes deleted records
	EmployerID    *string
	IsVerified    *bool
	Search        string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// TaxpayerRepository is the persistence port for Taxpayer.
type TaxpayerRepository interface {
	// Create returns a Conflict error when the TIN is already taken.
	Create(ctx context.Context, t *entity.Taxpayer) error
	// GetByID loads the employer relationship when withEmployer is set.
	GetByID(ctx context.Context, id string, withEmployer bool) (*entity.Taxpayer, error)
	GetByTIN(ctx context.Context, tin string) (*entity.Taxpayer, error)
	Update(ctx context.Context, t *entity.Taxpayer) error
	Delete(ctx context.Context, id string) error
	// List orders by created_at descending and returns the total before pagination.
	List(ctx context.Context, f TaxpayerFilter, limit, offset int) ([]*entity.Taxpayer, int, error)
	// Stats aggregates non-deleted records matching Scope and EmployerID; other predicates are ignored.
	Stats(ctx context.Context, f TaxpayerFilter) (*entity.TaxpayerStats, error)
}
