// Package apperr classifies failures into the outcomes the API reports to callers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the semantic class of an error, shared by the HTTP and gRPC layers.
type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindInvalid         Kind = "INVALID"
	KindConflict        Kind = "CONFLICT"
	KindRateLimited     Kind = "RATE_LIMITED"
	KindInternal        Kind = "INTERNAL"
)

// Error carries a kind, a stable snake_case code for clients and an optional cause
// that is only ever logged.
type Error struct {
	Kind Kind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

func Wrap(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, Err: err}
}

var (
	ErrUnauthenticated = New(KindUnauthenticated, "unauthenticated")
	ErrForbidden       = New(KindForbidden, "forbidden")
	ErrNotFound        = New(KindNotFound, "not_found")
)

// Internal wraps an infrastructure failure behind the opaque server_error code.
func Internal(err error) *Error {
	return Wrap(KindInternal, "server_error", err)
}

// As extracts the classified error, treating anything unclassified as internal.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil {
		return appErr
	}
	return Internal(err)
}

// Is reports whether err is classified with the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Kind == kind
	}
	return false
}

func Status(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch As(err).Kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalid:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
