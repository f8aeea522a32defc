// Package apperr defines the error taxonomy shared by all domain services.
// Every failure crossing a component boundary is one of four kinds; the HTTP
// layer translates them into a uniform success/failure envelope so callers
// never see raw driver errors or stack traces.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// KindValidation marks a missing or malformed required field.
	KindValidation Kind = iota
	// KindNotFound marks a referenced aggregate that is absent or not owned
	// by the caller.
	KindNotFound
	// KindConflict marks a read-modify-write that lost to concurrent writers
	// after the internal retries were exhausted.
	KindConflict
	// KindPersistence marks a storage-layer failure.
	KindPersistence
)

// Error carries a kind and a human-readable message. The wrapped cause, if
// any, is for logs only and never reaches the caller.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Persistence wraps a storage error behind a caller-safe message.
func Persistence(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindPersistence, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf returns the kind of err, defaulting to KindPersistence for errors
// that did not originate in a domain service.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindPersistence
}

func IsValidation(err error) bool { return is(err, KindValidation) }
func IsNotFound(err error) bool   { return is(err, KindNotFound) }
func IsConflict(err error) bool   { return is(err, KindConflict) }

func is(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}

// HTTPStatus maps an error kind to its response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
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

// PublicMessage returns the caller-visible message for err. Storage failures
// are masked with a generic message.
func PublicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindPersistence {
		return ae.Message
	}
	return "internal server error"
}
