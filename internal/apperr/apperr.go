// Package apperr defines the application error taxonomy.
//
// Every failure carries a kind (who can fix it), a stable machine-readable
// code, and a user-facing message. Transport layers map kinds to replies and
// never need to match on prose.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by who is expected to act on it.
type Kind string

const (
	// KindServer marks infrastructure faults the caller cannot fix
	KindServer Kind = "server"

	// KindClient marks malformed or unsatisfiable requests
	KindClient Kind = "client"

	// KindBusiness marks rule violations that are expected outcomes of play
	KindBusiness Kind = "business"
)

// Error is the tagged error type used across the module.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an error with the given kind, code and message
func New(kind Kind, code, message string) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// WithDetails attaches context for logs, never shown to end users
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithCause attaches the original error for the log cause chain
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

// KindOf returns the kind of err, or KindServer for untagged errors.
// Treating unknown faults as server errors keeps internals from leaking.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServer
}

// CodeOf returns the stable code of err, or empty for untagged errors
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given code anywhere in its chain
func IsCode(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// UserMessage returns the text safe to show to the invoking user.
// Server faults collapse to a generic message.
func UserMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindServer {
		return appErr.Message
	}
	return "The system is busy right now, please try again later."
}
