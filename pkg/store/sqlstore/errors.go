package sqlstore

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/sukryu/pSite/pkg/errors"
)

// postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgIntegrityClass      = "23"
	pgTooManyConnections  = "53300"
	pgCannotConnectNow    = "57P03"
	pgConnectionException = "08"
)

func IsNotFound(err error) bool {
	return stderrors.Is(err, gorm.ErrRecordNotFound)
}

func IsUniqueViolation(err error) bool {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func IsConstraintViolation(err error) bool {
	if stderrors.Is(err, gorm.ErrForeignKeyViolated) || stderrors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgIntegrityClass)
	}
	return strings.Contains(err.Error(), "constraint failed")
}

// IsUnavailable reports errors caused by the connection pool or server being
// unable to serve the request right now, including a request deadline that
// expired while waiting for a connection.
func IsUnavailable(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return true
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == pgTooManyConnections ||
			pgErr.Code == pgCannotConnectNow ||
			strings.HasPrefix(pgErr.Code, pgConnectionException)
	}
	var connErr *pgconn.ConnectError
	return stderrors.As(err, &connErr)
}

// classify maps a driver error onto the HTTP error taxonomy. The raw error is
// kept in the chain for logging; only the StatusError is rendered.
func classify(err error, table string, key fmt.Stringer) error {
	if err == nil {
		return nil
	}
	if se := errors.StatusOf(err); se != nil {
		return err
	}

	var status *errors.StatusError
	switch {
	case IsNotFound(err):
		reason := table
		if key != nil {
			reason = fmt.Sprintf("%s/%s", table, key)
		}
		return errors.ErrNotFound.WithReason(reason)
	case IsUnavailable(err):
		status = errors.ErrServiceUnavailable.WithReason(table)
	case IsUniqueViolation(err):
		status = errors.ErrUniqueViolation.WithReason(table)
	case IsConstraintViolation(err):
		status = errors.ErrConstraintViolation.WithReason(table)
	default:
		status = errors.ErrStorageOperation.WithReason(table)
	}
	return fmt.Errorf("%w: %v", status, err)
}
