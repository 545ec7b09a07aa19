// Package httperr defines the error taxonomy shared by the backend and the
// web edge. Failures are raised at the point of detection as a tagged
// variant (kind + status + message payload) and travel up unchanged; the
// Writer is the single place they are turned into an HTTP response.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind tags an Error with its taxonomy entry.
type Kind int

const (
	// KindInternal marks unclassified internal failures.
	KindInternal Kind = iota
	// KindUnauthorized marks authentication failures.
	KindUnauthorized
	// KindValidation marks malformed request bodies.
	KindValidation
	// KindRateLimited marks requests rejected by the rate limiter.
	KindRateLimited
	// KindUpstream marks failures of an external dependency.
	KindUpstream
	// KindNotFound marks requests for unknown routes.
	KindNotFound
)

// String returns the machine-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstream:
		return "upstream"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a structured HTTP-kind failure.
//
// Message is what the caller sees: a string for most kinds, or a
// per-field map for validation failures. Cause is never exposed to the
// caller; it exists for server-side logs only.
type Error struct {
	Kind    Kind
	Status  int
	Message any
	Cause   error

	body []byte
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, supporting errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithBody attaches the offending request body to a validation error so
// the Writer can log it. The body never appears in the response.
func (e *Error) WithBody(body []byte) *Error {
	e.body = body
	return e
}

// Unauthorized creates a 401 authentication failure.
func Unauthorized(message string) *Error {
	return &Error{
		Kind:    KindUnauthorized,
		Status:  http.StatusUnauthorized,
		Message: message,
	}
}

// Unauthorizedf creates a 401 authentication failure with a formatted
// message. Never include token material in the arguments.
func Unauthorizedf(format string, args ...any) *Error {
	return Unauthorized(fmt.Sprintf(format, args...))
}

// Validation creates a 400 failure carrying per-field messages. The map is
// emitted as-is in the envelope's message.
func Validation(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: fields,
	}
}

// NotFound creates a 404 failure for an unknown route.
func NotFound(method, path string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("Cannot %s %s", method, path),
	}
}

// RateLimited creates a 429 failure.
func RateLimited() *Error {
	return &Error{
		Kind:    KindRateLimited,
		Status:  http.StatusTooManyRequests,
		Message: "Too many requests",
	}
}

// Upstream creates a 500 failure for an unreachable or failing external
// dependency. The message must be generic; cause is logged server-side.
func Upstream(cause error, message string) *Error {
	return &Error{
		Kind:    KindUpstream,
		Status:  http.StatusInternalServerError,
		Message: message,
		Cause:   cause,
	}
}

// Internal wraps an unclassified failure. The caller-visible message is
// always generic.
func Internal(cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		Cause:   cause,
	}
}

// IsKind reports whether err is (or wraps) an Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
