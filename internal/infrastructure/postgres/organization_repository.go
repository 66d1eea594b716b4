package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

const organizationColumns = `id, name, type, state, registration_number, tax_identification_number,
	contact_email, contact_phone, address, created_at, updated_at`

// OrganizationRepo implements OrganizationRepository on PostgreSQL.
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository builds the organization persistence adapter.
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

// Create inserts an organization. Duplicate registration numbers and tax ids
// surface as Conflict through the unique constraints.
func (r *OrganizationRepo) Create(ctx context.Context, org *entity.Organization) error {
	query := `
		INSERT INTO organizations (` + organizationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		org.ID, org.Name, org.Type, org.State, org.RegistrationNumber, org.TaxID,
		org.ContactEmail, org.ContactPhone, org.Address, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert organization: %w", mapPostgresError(err))
	}
	return nil
}

// GetByID returns the organization with id, or nil.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var o entity.Organization
	err := r.q.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id).Scan(
		&o.ID, &o.Name, &o.Type, &o.State, &o.RegistrationNumber, &o.TaxID,
		&o.ContactEmail, &o.ContactPhone, &o.Address, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", mapPostgresError(err))
	}
	return &o, nil
}
