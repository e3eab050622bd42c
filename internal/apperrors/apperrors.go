// Package apperrors provides structured errors with machine-readable kinds.
//
// Every service operation either returns a result or fails with exactly one
// kind; nothing is swallowed and nothing is retried by the core.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error classification.
type Kind string

const (
	// KindNotFound means a referenced user, group, or member does not exist.
	KindNotFound Kind = "NOT_FOUND"

	// KindInvalidRequest means the input is malformed (self-referential
	// friend add, duplicate or negative member entries, bad status value).
	KindInvalidRequest Kind = "INVALID_REQUEST"

	// KindConflict means the operation would duplicate existing state
	// (friendship already exists, user ID already registered).
	KindConflict Kind = "CONFLICT"

	// KindReconciliationFailed means a membership reconciliation
	// transaction could not commit; no partial state is visible.
	KindReconciliationFailed Kind = "RECONCILIATION_FAILED"

	// KindInternal covers storage and other infrastructure failures.
	KindInternal Kind = "INTERNAL"
)

// Error is a classified error with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind that wraps a cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to an HTTP status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindReconciliationFailed, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
