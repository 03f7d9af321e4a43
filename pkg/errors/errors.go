package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type StatusError struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Reason     string `json:"reason,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("status %d: %s: %s", e.Code, e.Message, e.Reason)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// Is matches on code and message so a sentinel with a reason attached still
// compares equal to the bare sentinel.
func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func NewStatusError(code int, message string) *StatusError {
	return &StatusError{
		Code:    code,
		Message: message,
	}
}

// WithReason returns a copy of the error carrying reason. Sentinels are shared
// across requests and must never be mutated.
func (e *StatusError) WithReason(reason string) *StatusError {
	cp := *e
	cp.Reason = reason
	return &cp
}

func (e *StatusError) WithRetryAfter(seconds int) *StatusError {
	cp := *e
	cp.RetryAfter = seconds
	return &cp
}

// StatusOf returns the StatusError wrapped somewhere in err's chain, or nil.
func StatusOf(err error) *StatusError {
	var se *StatusError
	if stderrors.As(err, &se) {
		return se
	}
	return nil
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

var (
	// Authentication errors
	ErrUnauthorized       = NewStatusError(http.StatusUnauthorized, "unauthorized")
	ErrInvalidCredentials = NewStatusError(http.StatusUnauthorized, "invalid credentials")
	ErrTokenExpired       = NewStatusError(http.StatusUnauthorized, "token expired")
	ErrInvalidToken       = NewStatusError(http.StatusUnauthorized, "invalid token")

	// Validation errors
	ErrInvalidInput     = NewStatusError(http.StatusBadRequest, "invalid input")
	ErrInvalidJSON      = NewStatusError(http.StatusBadRequest, "invalid JSON format")
	ErrUnsupportedMedia = NewStatusError(http.StatusBadRequest, "unsupported media type")

	// Resource errors
	ErrNotFound = NewStatusError(http.StatusNotFound, "resource not found")

	// Rate limiting
	ErrTooManyRequests = NewStatusError(http.StatusTooManyRequests, "too many requests")

	// Server errors
	ErrInternal      = NewStatusError(http.StatusInternalServerError, "internal server error")
	ErrMailDelivery  = NewStatusError(http.StatusInternalServerError, "mail delivery failed")
	ErrFileOperation = NewStatusError(http.StatusInternalServerError, "file operation failed")

	// Store Operation errors
	ErrStorageOperation  = NewStatusError(http.StatusInternalServerError, "storage operation failed")
	ErrTransactionFailed = NewStatusError(http.StatusInternalServerError, "transaction failed")

	// Database specific errors. Constraint violations are repository errors
	// and surface as 500 like any other failed statement.
	ErrUniqueViolation     = NewStatusError(http.StatusInternalServerError, "unique constraint violation")
	ErrConstraintViolation = NewStatusError(http.StatusInternalServerError, "constraint violation")
	ErrDatabaseConnection  = NewStatusError(http.StatusInternalServerError, "database connection failed")
	ErrServiceUnavailable  = NewStatusError(http.StatusServiceUnavailable, "service unavailable")
)
