package memory

import (
	"context"

	"github.com/jhoicas/taxpayer-registry/internal/domain"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo is the in-memory OrganizationRepository.
type OrganizationRepo struct {
	a accessor
}

func (r *OrganizationRepo) Create(ctx context.Context, org *entity.Organization) error {
	return r.a.update(ctx, func(st *state) error {
		if _, ok := st.orgs[org.ID]; ok {
			return domain.Conflict("organization %s already exists", org.ID)
		}
		for _, o := range st.orgs {
			if sameValue(o.RegistrationNumber, org.RegistrationNumber) {
				return domain.Conflict("Registration number already in use")
			}
			if sameValue(o.TaxID, org.TaxID) {
				return domain.Conflict("Tax identification number already in use")
			}
		}
		c := *org
		st.orgs[c.ID] = &c
		return nil
	})
}

func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	var out *entity.Organization
	err := r.a.view(ctx, func(st *state) error {
		if o, ok := st.orgs[id]; ok {
			c := *o
			out = &c
		}
		return nil
	})
	return out, err
}

// sameValue compares two optional unique values; absent values never collide.
func sameValue(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
