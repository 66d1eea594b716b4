package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/taxpayer-registry/internal/domain"
)

func TestMapPostgresError(t *testing.T) {
	assert.NoError(t, mapPostgresError(nil))

	plain := errors.New("dial tcp: refused")
	assert.Same(t, plain, mapPostgresError(plain))

	err := mapPostgresError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "taxpayers_tin_key"}))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Taxpayer with this TIN already exists", err.Error())

	err = mapPostgresError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "organizations_tax_identification_number_key"})
	assert.Equal(t, "Tax identification number already in use", err.Error())

	err = mapPostgresError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "other_key"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = mapPostgresError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "taxpayers_employer_id_fkey"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	err = mapPostgresError(&pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "taxpayers_status_check"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Contains(t, err.Error(), "taxpayers_status_check")

	err = mapPostgresError(&pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "full_name"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	err = mapPostgresError(fmt.Errorf("get taxpayer: %w", &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation,
		Message: `invalid input syntax for type uuid: "abc"`}))
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	assert.NotContains(t, err.Error(), "uuid")

	err = mapPostgresError(&pgconn.PgError{Code: pgerrcode.DiskFull, Message: "disk full"})
	assert.Nil(t, domain.KindOf(err))
	assert.Contains(t, err.Error(), pgerrcode.DiskFull)
}

func TestWhere_EqIDOnMalformedID(t *testing.T) {
	w := &where{}
	w.eqID("t.employer_id", "not-a-uuid")
	w.eqID("t.employer_id", "0b6f8f0e-4a4e-4c53-9d8c-6d1f3f0a2b7e")
	assert.Equal(t, " WHERE FALSE AND t.employer_id = $1", w.sql())
	assert.Equal(t, []any{"0b6f8f0e-4a4e-4c53-9d8c-6d1f3f0a2b7e"}, w.args)
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("0b6f8f0e-4a4e-4c53-9d8c-6d1f3f0a2b7e"))
	for _, id := range []string{"", "abc", "org-1", "0b6f8f0e-4a4e-4c53-9d8c"} {
		assert.False(t, isUUID(id), id)
	}
}
