package db

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsInvalidText reports a value Postgres could not parse for its column type,
// such as a malformed uuid in a path parameter.
func IsInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// IsNotFound treats a missing row and an unparseable id the same way: no
// such record can exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || IsInvalidText(err)
}
