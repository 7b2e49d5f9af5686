package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the corpus stores care about
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgCannotConnectNow     = "57P03"
)

// sqlite reports constraint failures as text only
const liteUnique = "UNIQUE constraint failed"

// PgCode returns the SQLSTATE of the root cause, "" when it is not a postgres error
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsDuplicateKey reports a unique violation from postgres or sqlite
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return PgCode(err) == pgUniqueViolation || strings.Contains(err.Error(), liteUnique)
}

// IsRetryable reports transient store failures a caller may retry
func IsRetryable(err error) bool {
	switch PgCode(err) {
	case pgSerializationFailure, pgDeadlockDetected, pgCannotConnectNow:
		return true
	}
	var ce *pgconn.ConnectError
	return stderrs.As(err, &ce)
}

// FromStore codes a store error: duplicates, unavailable, canceled, else DB
// coded errors and nil pass through
func FromStore(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case stderrs.Is(err, context.Canceled), stderrs.Is(err, context.DeadlineExceeded):
		return err
	}
	if _, ok := As(err); ok {
		return err
	}
	switch {
	case IsDuplicateKey(err):
		return Wrap(err, ErrorCodeDuplicateKey, msg)
	case IsRetryable(err):
		return Wrap(err, ErrorCodeUnavailable, msg)
	default:
		return Wrap(err, ErrorCodeDB, msg)
	}
}
