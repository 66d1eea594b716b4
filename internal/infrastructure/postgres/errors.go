package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/taxpayer-registry/internal/domain"
)

// Messages reported for the unique constraints of the schema.
var uniqueMessages = map[string]string{
	"users_email_key":                             "user with this email already exists",
	"organizations_registration_number_key":       "Registration number already in use",
	"organizations_tax_identification_number_key": "Tax identification number already in use",
	"taxpayers_tin_key":                           "Taxpayer with this TIN already exists",
}

// mapPostgresError turns constraint violations into domain errors. Any other
// error is returned wrapped with the postgres diagnostics, or unchanged when
// it does not come from the server.
func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if msg, ok := uniqueMessages[pgErr.ConstraintName]; ok {
			return domain.Conflict("%s", msg)
		}
		return domain.Conflict("duplicate value violates %s", pgErr.ConstraintName)

	case pgerrcode.ForeignKeyViolation:
		return domain.BadRequest("referenced record does not exist (%s)", pgErr.ConstraintName)

	case pgerrcode.CheckViolation:
		return domain.BadRequest("check constraint %s violated", pgErr.ConstraintName)

	case pgerrcode.InvalidTextRepresentation:
		return domain.BadRequest("malformed value")

	case pgerrcode.NotNullViolation:
		return domain.BadRequest("%s is required", pgErr.ColumnName)

	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("transaction conflict (retryable): %w", err)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled: %w", err)

	default:
		return fmt.Errorf("postgres error [%s]: %s (detail: %s): %w", pgErr.Code, pgErr.Message, pgErr.Detail, err)
	}
}

// isUUID reports whether id can be compared with a UUID column. Lookups by an
// id that is not a UUID match nothing instead of failing the query.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
