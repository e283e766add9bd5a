// Package apperr defines the error taxonomy shared by all layers.
//
// Lower layers construct an *Error close to the point of detection and
// pass it upward unchanged; the handler boundary is the only place that
// translates a Kind into an HTTP status and decides logging verbosity.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Every kind except Internal is operational:
// its message is safe to return verbatim to the caller.
type Kind int

const (
	BadRequest Kind = iota
	Unauthorized
	Forbidden
	NotFound
	Conflict
	ValidationFailed
	RateLimited
	Internal
)

// String returns the wire-level name of the kind.
func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case ValidationFailed:
		return "validation_failed"
	case RateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// FieldError describes a single violated validation rule. A request may
// carry several, one per rule, in declaration order.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error is the single error type crossing layer boundaries.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an operational error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an operational error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a ValidationFailed error carrying the full ordered
// list of field errors.
func Validation(fields []FieldError) *Error {
	return &Error{Kind: ValidationFailed, Message: "validation failed", Fields: fields}
}

// Wrap classifies an unexpected failure as Internal, keeping the cause
// for server-side logging. The message shown to callers is always the
// opaque generic one.
func Wrap(err error, context string) *Error {
	return &Error{Kind: Internal, Message: "internal server error", Err: fmt.Errorf("%s: %w", context, err)}
}

// KindOf extracts the taxonomy kind from any error. Errors that are not
// an *Error are treated as Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// From returns err as an *Error, wrapping unknown errors as Internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: Internal, Message: "internal server error", Err: err}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
