// Package pgerr translates PostgreSQL driver errors into the common
// error taxonomy.
package pgerr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories care about.
const (
	UniqueViolation         = "23505"
	ForeignKeyViolation     = "23503"
	InvalidTextRepresention = "22P02"
)

// Wrap classifies err. Unique violations become ErrDuplicate, foreign key
// violations and sql.ErrNoRows become ErrNotFound, malformed ids become
// ErrValidation. Anything else is returned as "db error: ...".
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case UniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrDuplicate, pgErr.ConstraintName)
		case ForeignKeyViolation:
			return fmt.Errorf("%w: %s", common.ErrNotFound, pgErr.ConstraintName)
		case InvalidTextRepresention:
			return fmt.Errorf("%w: %s", common.ErrValidation, pgErr.Message)
		}
	}

	return fmt.Errorf("db error: %w", err)
}
