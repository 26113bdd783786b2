// Package apperr holds the error kinds shared by the repositories, services
// and HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindAlreadyExists      Kind = "ALREADY_EXISTS"
	KindAlreadyLiked       Kind = "ALREADY_LIKED"
	KindAlreadyViewed      Kind = "ALREADY_VIEWED"
	KindReplyTargetMissing Kind = "REPLY_TARGET_MISSING"
	KindWrongPassword      Kind = "WRONG_PASSWORD"
	KindValidation         Kind = "VALIDATION_ERROR"
	KindStore              Kind = "STORE_ERROR"
)

// Error is a domain error with a stable kind. Err keeps the underlying
// cause (a *pq.Error, sql.ErrNoRows, ...) for logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrAlreadyExists      = &Error{Kind: KindAlreadyExists, Message: "already exists"}
	ErrAlreadyLiked       = &Error{Kind: KindAlreadyLiked, Message: "post already liked"}
	ErrAlreadyViewed      = &Error{Kind: KindAlreadyViewed, Message: "post already viewed"}
	ErrReplyTargetMissing = &Error{Kind: KindReplyTargetMissing, Message: "reply target does not exist"}
	ErrWrongPassword      = &Error{Kind: KindWrongPassword, Message: "wrong password"}
	ErrValidation         = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrStore              = &Error{Kind: KindStore, Message: "store error"}
)

func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func NotFound(message string, cause error) *Error {
	return New(KindNotFound, message, cause)
}

func AlreadyExists(message string, cause error) *Error {
	return New(KindAlreadyExists, message, cause)
}

// Validation reports a field that failed its constraints.
func Validation(field, message string) *Error {
	return New(KindValidation, field+": "+message, nil)
}

// Store wraps an unexpected persistence failure.
func Store(cause error) *Error {
	return New(KindStore, "unexpected store failure", cause)
}

// KindOf returns the kind of err, or an empty Kind when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
