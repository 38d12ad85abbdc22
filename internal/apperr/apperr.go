// Package apperr defines the error kinds surfaced to HTTP callers.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error carries a kind, a translation code and optional format arguments for the message.
type Error struct {
	Kind    Kind
	Code    string
	Args    []any
	Details any
	Err     error
}

func (e *Error) Error() string {
	msg := e.Code
	if len(e.Args) > 0 {
		msg = fmt.Sprintf("%s %v", e.Code, e.Args)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(code string, details any) *Error {
	return &Error{Kind: KindValidation, Code: code, Details: details}
}

func Conflict(code string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: code, Args: args}
}

func NotFound(code string) *Error {
	return &Error{Kind: KindNotFound, Code: code}
}

func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Code: "unauthenticated"}
}

// Internal wraps an unexpected failure. The cause is logged, never returned to callers.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Err: err}
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As extracts an *Error, converting foreign errors into Internal ones.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
