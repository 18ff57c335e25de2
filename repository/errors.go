package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/zeebo/errs"
)

// Error is the error class for repository failures.
var Error = errs.Class("repository")

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// Postgres SQLSTATE codes the callers branch on.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// querier is satisfied by both *sql.DB and *sql.Tx so lookups can run inside or outside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// IsUniqueViolation reports whether err carries a unique-constraint violation from Postgres.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == uniqueViolation
}

// IsForeignKeyViolation reports whether err carries a foreign-key violation from Postgres.
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == foreignKeyViolation
}

// IsConstraintViolation reports unique and foreign-key violations alike.
func IsConstraintViolation(err error) bool {
	code := pgCode(err)
	return code == uniqueViolation || code == foreignKeyViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
