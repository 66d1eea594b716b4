package repository

import (
	"context"

	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
)

// OrganizationRepository is the persistence port for Organization.
type OrganizationRepository interface {
	// Create returns a Conflict error naming the field when the registration
	// number or tax id is already taken.
	Create(ctx context.Context, org *entity.Organization) error
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
}
