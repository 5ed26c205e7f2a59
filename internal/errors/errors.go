package errors

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies a failure independently of the transport.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindInvalidArgument
	KindConflict
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// Error carries a Kind plus a caller-facing message. Err keeps the
// underlying cause for logs and errors.Is checks.
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

func NotFound(msg string) error        { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) error       { return &Error{Kind: KindForbidden, Message: msg} }
func InvalidArgument(msg string) error { return &Error{Kind: KindInvalidArgument, Message: msg} }
func Conflict(msg string) error        { return &Error{Kind: KindConflict, Message: msg} }
func Unauthenticated(msg string) error { return &Error{Kind: KindUnauthenticated, Message: msg} }

// Internal wraps a storage or infrastructure failure.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the classification of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &e):
		return e.Kind
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return KindConflict
	default:
		return KindInternal
	}
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the caller-facing text for err. Internal causes are not exposed.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	switch KindOf(err) {
	case KindNotFound:
		return "record not found"
	case KindConflict:
		return "record already exists"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request was canceled"
	}
	return "internal error"
}

// Wrap leaves classified errors and context errors untouched, keeps
// gorm's not-found and duplicate-key classification, and turns anything
// else into an internal error carrying msg.
func Wrap(err error, msg string) error {
	var e *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &e), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	switch KindOf(err) {
	case KindNotFound:
		return &Error{Kind: KindNotFound, Message: "record not found", Err: err}
	case KindConflict:
		return &Error{Kind: KindConflict, Message: "record already exists", Err: err}
	}
	return Internal(msg, err)
}
