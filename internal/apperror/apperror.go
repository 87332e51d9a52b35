// Package apperror defines the domain error taxonomy shared by the API
// server and its clients, plus the mapping to the uniform JSON envelope
// {status: "fail"|"error", message}.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindValidation
	KindNotFound
	KindConflict
)

// Error is a domain error with a kind and a user-facing message. The wrapped
// cause, if any, is for logs only and never reaches a response body.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a domain error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Unauthenticated builds a 401 error.
func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

// Validation builds a 400 error naming the offending field.
func Validation(field string) *Error {
	return New(KindValidation, fmt.Sprintf("invalid or missing field: %s", field))
}

// NotFound builds a 404 error. Ownership misses use the same message as true
// absence so one owner can never probe another owner's task ids.
func NotFound(resource string) *Error {
	return New(KindNotFound, fmt.Sprintf("no %s found with that ID", resource))
}

// Conflict builds a 409 error.
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Internal wraps an unexpected failure. The response message is generic.
func Internal(err error) *Error {
	return Wrap(KindInternal, "something went wrong", err)
}

// KindOf extracts the kind from err, defaulting to KindInternal for
// anything outside the taxonomy.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// HTTPStatus maps a kind to its status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// EnvelopeStatus returns the envelope status word for an HTTP code:
// "fail" for 4xx, "error" otherwise.
func EnvelopeStatus(httpStatus int) string {
	if httpStatus >= 400 && httpStatus < 500 {
		return "fail"
	}
	return "error"
}

// Message returns the user-facing message for err. Errors outside the
// taxonomy collapse to a generic message so internals never leak.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "something went wrong"
}

// FromStatus rebuilds a domain error from an HTTP status and envelope
// message. This is the single translation point used by API clients.
func FromStatus(httpStatus int, message string) *Error {
	switch httpStatus {
	case http.StatusUnauthorized:
		return New(KindUnauthenticated, message)
	case http.StatusBadRequest:
		return New(KindValidation, message)
	case http.StatusNotFound:
		return New(KindNotFound, message)
	case http.StatusConflict:
		return New(KindConflict, message)
	default:
		return New(KindInternal, message)
	}
}
