package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/taskwell/taskwell-api/internal/store"
)

// PostgreSQL error codes
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
)

// isUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation, optionally on a constraint whose name contains
// the given fragment.
func isUniqueViolation(err error, constraintFragment string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolationCode {
		return false
	}
	if constraintFragment == "" {
		return true
	}
	return strings.Contains(pgErr.ConstraintName, constraintFragment)
}

// isForeignKeyViolation checks if the given error is a PostgreSQL foreign
// key constraint violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode
}

// mapConnError translates deadline and connectivity failures into
// store.ErrUnavailable so callers can treat them as transient. Other errors
// pass through unchanged.
func mapConnError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return store.NewStoreError("", "query", "deadline exceeded", store.ErrUnavailable)
	}
	if pgconn.Timeout(err) {
		return store.NewStoreError("", "query", "connection timeout", store.ErrUnavailable)
	}
	return err
}
