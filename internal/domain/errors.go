package domain

import (
	"errors"
	"fmt"
)

// Error kinds (no external dependencies). Every error returned by the use cases
// wraps exactly one of them, so callers can branch with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
)

// Error carries a stable kind plus a human readable message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Message: msg}
}

// Unauthorized: missing, invalid or expired credentials, or an inactive account.
func Unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

// Forbidden: authenticated but the policy denies the action.
func Forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

// NotFound: the referenced entity does not exist.
func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

// Conflict: uniqueness violation.
func Conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

// BadRequest: malformed input, missing foreign entity or failed validation.
func BadRequest(format string, args ...any) error {
	return newError(ErrBadRequest, format, args...)
}

// KindOf returns the sentinel kind wrapped by err, or nil for infrastructure errors.
func KindOf(err error) error {
	for _, k := range []error{ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict, ErrBadRequest} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// MessageOf returns the client-facing message of err: the Message of the
// wrapped *Error without the context added by callers, the kind name for a
// bare sentinel, and "" for infrastructure errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Error()
	}
	if kind := KindOf(err); kind != nil {
		return kind.Error()
	}
	return ""
}
