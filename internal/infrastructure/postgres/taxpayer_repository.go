package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jhoicas/taxpayer-registry/internal/domain"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/domain/policy"
	"github.com/jhoicas/taxpayer-registry/internal/domain/repository"
)

var _ repository.TaxpayerRepository = (*TaxpayerRepo)(nil)

const taxpayerColumns = `t.id, t.full_name, t.tin, t.bvn, t.nin, t.email, t.phone_number, t.address, t.city,
	t.state, t.tax_type, t.business_name, t.rc_number, t.business_type, t.industry,
	t.employer_id, t.employment_status, t.job_title, t.employment_date,
	t.status, t.is_verified, t.verification_date, t.last_filing_date, t.metadata,
	t.created_by, t.updated_by, t.created_at, t.updated_at`

// TaxpayerRepo implements TaxpayerRepository on PostgreSQL.
type TaxpayerRepo struct {
	q Querier
}

// NewTaxpayerRepository builds the taxpayer persistence adapter.
func NewTaxpayerRepository(q Querier) *TaxpayerRepo {
	return &TaxpayerRepo{q: q}
}

// Create inserts a taxpayer. A duplicate TIN surfaces as Conflict.
func (r *TaxpayerRepo) Create(ctx context.Context, t *entity.Taxpayer) error {
	query := `
		INSERT INTO taxpayers (` + strings.ReplaceAll(taxpayerColumns, "t.", "") + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		        $20, $21, $22, $23, $24, $25, $26, $27, $28)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.FullName, t.TIN, t.BVN, t.NIN, t.Email, t.PhoneNumber, t.Address, t.City,
		t.State, t.TaxType, t.BusinessName, t.RCNumber, t.BusinessType, t.Industry,
		t.EmployerID, t.EmploymentStatus, t.JobTitle, t.EmploymentDate,
		t.Status, t.IsVerified, t.VerificationDate, t.LastFilingDate, jsonObject(t.Metadata),
		t.CreatedBy, t.UpdatedBy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert taxpayer: %w", mapPostgresError(err))
	}
	return nil
}

// GetByID returns the taxpayer with id, or nil. The employer is joined when withEmployer is set.
func (r *TaxpayerRepo) GetByID(ctx context.Context, id string, withEmployer bool) (*entity.Taxpayer, error) {
	if !isUUID(id) {
		return nil, nil
	}
	if !withEmployer {
		return r.getOne(ctx, `SELECT `+taxpayerColumns+` FROM taxpayers t WHERE t.id = $1`, id)
	}

	query := `
		SELECT ` + taxpayerColumns + `,
		       o.id, o.name, o.type, o.state, o.registration_number, o.tax_identification_number,
		       o.contact_email, o.contact_phone, o.address, o.created_at, o.updated_at
		FROM taxpayers t
		LEFT JOIN organizations o ON o.id = t.employer_id
		WHERE t.id = $1`
	var (
		t   entity.Taxpayer
		org nullableOrganization
	)
	dest := append(taxpayerDest(&t), org.dest()...)
	if err := r.q.QueryRow(ctx, query, id).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get taxpayer: %w", mapPostgresError(err))
	}
	t.Employer = org.organization()
	return &t, nil
}

// GetByTIN returns the taxpayer owning tin, or nil.
func (r *TaxpayerRepo) GetByTIN(ctx context.Context, tin string) (*entity.Taxpayer, error) {
	return r.getOne(ctx, `SELECT `+taxpayerColumns+` FROM taxpayers t WHERE t.tin = $1`, tin)
}

// Update writes every mutable column.
func (r *TaxpayerRepo) Update(ctx context.Context, t *entity.Taxpayer) error {
	query := `
		UPDATE taxpayers SET
			full_name = $2, tin = $3, bvn = $4, nin = $5, email = $6, phone_number = $7, address = $8, city = $9,
			state = $10, tax_type = $11, business_name = $12, rc_number = $13, business_type = $14, industry = $15,
			employer_id = $16, employment_status = $17, job_title = $18, employment_date = $19,
			status = $20, is_verified = $21, verification_date = $22, last_filing_date = $23, metadata = $24,
			updated_by = $25, updated_at = $26
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		t.ID, t.FullName, t.TIN, t.BVN, t.NIN, t.Email, t.PhoneNumber, t.Address, t.City,
		t.State, t.TaxType, t.BusinessName, t.RCNumber, t.BusinessType, t.Industry,
		t.EmployerID, t.EmploymentStatus, t.JobTitle, t.EmploymentDate,
		t.Status, t.IsVerified, t.VerificationDate, t.LastFilingDate, jsonObject(t.Metadata),
		t.UpdatedBy, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update taxpayer: %w", mapPostgresError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Taxpayer not found")
	}
	return nil
}

// Delete removes the row.
func (r *TaxpayerRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.NotFound("Taxpayer not found")
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM taxpayers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete taxpayer: %w", mapPostgresError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Taxpayer not found")
	}
	return nil
}

// List returns one page ordered by created_at descending plus the unpaginated total.
func (r *TaxpayerRepo) List(ctx context.Context, f repository.TaxpayerFilter, limit, offset int) ([]*entity.Taxpayer, int, error) {
	if f.Scope.None {
		return nil, 0, nil
	}
	w := &where{}
	w.scope(f.Scope)
	if f.Status == nil {
		w.add("t.status <> 'deleted'")
	} else {
		w.add("t.status = " + w.arg(*f.Status))
	}
	if f.State != nil {
		w.add("t.state = " + w.arg(*f.State))
	}
	if f.TaxType != nil {
		w.add("t.tax_type = " + w.arg(*f.TaxType))
	}
	if f.EmployerID != nil {
		w.eqID("t.employer_id", *f.EmployerID)
	}
	if f.IsVerified != nil {
		w.add("t.is_verified = " + w.arg(*f.IsVerified))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := w.arg("%" + escapeLike(s) + "%")
		w.add(fmt.Sprintf("(t.full_name ILIKE %[1]s OR t.tin ILIKE %[1]s OR t.business_name ILIKE %[1]s OR t.email ILIKE %[1]s)", p))
	}
	if f.CreatedAfter != nil {
		w.add("t.created_at >= " + w.arg(*f.CreatedAfter))
	}
	if f.CreatedBefore != nil {
		w.add("t.created_at <= " + w.arg(*f.CreatedBefore))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM taxpayers t`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count taxpayers: %w", mapPostgresError(err))
	}

	query := `SELECT ` + taxpayerColumns + ` FROM taxpayers t` + w.sql() +
		fmt.Sprintf(` ORDER BY t.created_at DESC, t.id DESC LIMIT %s OFFSET %s`, w.arg(limit), w.arg(offset))
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list taxpayers: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var list []*entity.Taxpayer
	for rows.Next() {
		var t entity.Taxpayer
		if err := rows.Scan(taxpayerDest(&t)...); err != nil {
			return nil, 0, fmt.Errorf("scan taxpayer: %w", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Stats aggregates the non-deleted rows in the scope, optionally narrowed to one employer.
func (r *TaxpayerRepo) Stats(ctx context.Context, f repository.TaxpayerFilter) (*entity.TaxpayerStats, error) {
	stats := &entity.TaxpayerStats{
		ByTaxType: map[entity.TaxType]int{},
		ByStatus:  map[entity.TaxpayerStatus]int{},
		ByState:   map[entity.Region]int{},
	}
	if f.Scope.None {
		return stats, nil
	}
	w := &where{}
	w.scope(f.Scope)
	w.add("t.status <> 'deleted'")
	if f.EmployerID != nil {
		w.eqID("t.employer_id", *f.EmployerID)
	}

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE t.is_verified),
		       COALESCE(ROUND(COUNT(*) FILTER (WHERE t.is_verified) * 100.0 / NULLIF(COUNT(*), 0), 2), 0)
		FROM taxpayers t` + w.sql()
	if err := r.q.QueryRow(ctx, query, w.args...).Scan(&stats.Total, &stats.Verified, &stats.VerificationRate); err != nil {
		return nil, fmt.Errorf("taxpayer stats: %w", mapPostgresError(err))
	}

	groups := []struct {
		column string
		add    func(key string, n int)
	}{
		{"tax_type", func(k string, n int) { stats.ByTaxType[entity.TaxType(k)] = n }},
		{"status", func(k string, n int) { stats.ByStatus[entity.TaxpayerStatus(k)] = n }},
		{"state", func(k string, n int) { stats.ByState[entity.Region(k)] = n }},
	}
	for _, g := range groups {
		rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT t.%[1]s, COUNT(*) FROM taxpayers t%[2]s GROUP BY t.%[1]s`, g.column, w.sql()), w.args...)
		if err != nil {
			return nil, fmt.Errorf("taxpayer stats by %s: %w", g.column, mapPostgresError(err))
		}
		for rows.Next() {
			var (
				key string
				n   int
			)
			if err := rows.Scan(&key, &n); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan stats by %s: %w", g.column, err)
			}
			g.add(key, n)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (r *TaxpayerRepo) getOne(ctx context.Context, query string, arg any) (*entity.Taxpayer, error) {
	var t entity.Taxpayer
	if err := r.q.QueryRow(ctx, query, arg).Scan(taxpayerDest(&t)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get taxpayer: %w", mapPostgresError(err))
	}
	return &t, nil
}

func taxpayerDest(t *entity.Taxpayer) []any {
	return []any{
		&t.ID, &t.FullName, &t.TIN, &t.BVN, &t.NIN, &t.Email, &t.PhoneNumber, &t.Address, &t.City,
		&t.State, &t.TaxType, &t.BusinessName, &t.RCNumber, &t.BusinessType, &t.Industry,
		&t.EmployerID, &t.EmploymentStatus, &t.JobTitle, &t.EmploymentDate,
		&t.Status, &t.IsVerified, &t.VerificationDate, &t.LastFilingDate, &t.Metadata,
		&t.CreatedBy, &t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt,
	}
}

// nullableOrganization receives the LEFT JOINed employer columns.
type nullableOrganization struct {
	id, name, typ                       *string
	state, regNumber, taxID             *string
	contactEmail, contactPhone, address *string
	createdAt, updatedAt                pgtype.Timestamptz
}

func (o *nullableOrganization) dest() []any {
	return []any{
		&o.id, &o.name, &o.typ, &o.state, &o.regNumber, &o.taxID,
		&o.contactEmail, &o.contactPhone, &o.address, &o.createdAt, &o.updatedAt,
	}
}

func (o *nullableOrganization) organization() *entity.Organization {
	if o.id == nil {
		return nil
	}
	org := &entity.Organization{
		ID:                 *o.id,
		State:              o.state,
		RegistrationNumber: o.regNumber,
		TaxID:              o.taxID,
		ContactEmail:       o.contactEmail,
		ContactPhone:       o.contactPhone,
		Address:            o.address,
		CreatedAt:          o.createdAt.Time,
		UpdatedAt:          o.updatedAt.Time,
	}
	if o.name != nil {
		org.Name = *o.name
	}
	if o.typ != nil {
		org.Type = entity.OrganizationType(*o.typ)
	}
	return org
}

// where accumulates AND-ed predicates and their positional arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) add(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *where) scope(s policy.Scope) {
	switch {
	case s.All:
	case s.OrganizationID == nil:
		w.add("t.employer_id IS NULL")
	default:
		w.eqID("t.employer_id", *s.OrganizationID)
	}
}

// eqID compares a UUID column with id; an id that is not a UUID matches no row.
func (w *where) eqID(column, id string) {
	if !isUUID(id) {
		w.add("FALSE")
		return
	}
	w.add(column + " = " + w.arg(id))
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
