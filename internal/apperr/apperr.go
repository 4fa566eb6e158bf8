package apperr

import (
	"errors"
	"net/http"
)

// Kind is the closed set of error categories the API can surface.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindProviderUnavailable
	KindNoActiveLike
)

// Error carries a kind and a caller-facing message. The HTTP boundary maps
// the kind to a status code; components never pick status codes themselves.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound, KindProviderUnavailable:
		// The external provider failing looks like "no such record" to
		// callers, same as the original backend's ApiNotFoundError.
		return http.StatusNotFound
	case KindNoActiveLike:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap keeps the underlying cause reachable via errors.Is/As while the
// boundary only ever serializes kind and message.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "Forbidden"
	}
	return New(KindForbidden, message)
}

func NotFound(message string) *Error {
	if message == "" {
		message = "Not Found"
	}
	return New(KindNotFound, message)
}

func ProviderUnavailable(cause error) *Error {
	return Wrap(KindProviderUnavailable, "External API Not Found", cause)
}

func NoActiveLike(message string) *Error {
	if message == "" {
		message = "no active like"
	}
	return New(KindNoActiveLike, message)
}

// From extracts the *Error from err, or classifies err as internal.
// Unexpected failures never leak their detail to clients.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(KindInternal, "Internal Server Error", err)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
