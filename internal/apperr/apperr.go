// Package apperr defines the error kinds surfaced to API callers.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for translation at the transport boundary.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is an expected failure whose Message is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	// Status overrides the default HTTP status of Kind when non-zero.
	Status int
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// HTTPStatus returns the HTTP status code for the error.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Validation reports malformed or missing input (400).
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Unprocessable is a validation error answered with 422.
func Unprocessable(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Status: http.StatusUnprocessableEntity}
}

// Unauthenticated reports a missing or invalid identity (401).
func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

// Forbidden reports a valid identity lacking the required role (403).
func Forbidden(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

// NotFound reports that a referenced entity does not exist (404).
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict reports a request incompatible with the current state (409).
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == k
}
