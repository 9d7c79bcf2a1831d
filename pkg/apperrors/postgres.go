package apperrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the API reports to clients instead of as 500s.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgInvalidTextRep      = "22P02"
	pgInvalidDatetime     = "22007"
	pgDatetimeOverflow    = "22008"
	pgUndefinedColumn     = "42703"
)

// FromPgError classifies constraint and input errors reported by PostgreSQL.
// Unique violations become ErrConflict, foreign key, not-null and malformed
// input errors become ErrBadRequest. Any other error is returned unchanged.
func FromPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	msg := pgErr.Detail
	if msg == "" {
		msg = pgErr.Message
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return Conflictf("%s", msg)
	case pgForeignKeyViolation, pgNotNullViolation, pgCheckViolation,
		pgInvalidTextRep, pgInvalidDatetime, pgDatetimeOverflow, pgUndefinedColumn:
		return BadRequestf("%s", msg)
	}
	return err
}
