// Package errs defines the error categories surfaced by the API.
package errs

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindQuotaExceeded
	KindValidation
	KindConflict
)

// Error carries a category plus the single user-visible message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap keeps the underlying cause while presenting message to the caller.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error      { return E(KindNotFound, message) }
func Forbidden(message string) *Error     { return E(KindForbidden, message) }
func QuotaExceeded(message string) *Error { return E(KindQuotaExceeded, message) }
func Validation(message string) *Error    { return E(KindValidation, message) }
func Conflict(message string) *Error      { return E(KindConflict, message) }
func Internal(message string) *Error      { return E(KindInternal, message) }

// KindOf reports the category of err; anything unrecognized is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindQuotaExceeded:
		return http.StatusTooManyRequests
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
