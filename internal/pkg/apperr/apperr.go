// Package apperr defines the error taxonomy shared by every application module.
//
// Each error carries a Kind. Callers branch on the kind with errors.Is against
// the kind sentinels (ErrValidation, ErrNotFound, ...) or with KindOf, while
// domain packages declare their own named sentinels built with New.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation and transport mapping.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindInvalidTransition Kind = "invalid_transition"
	KindConflict          Kind = "conflict"
	KindDependency        Kind = "dependency"
	KindInternal          Kind = "internal"
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Kind sentinels. errors.Is(err, ErrConflict) matches any *Error of that kind.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrDependency        = &Error{Kind: KindDependency}
)

// New creates a classified error with a message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Dependency wraps a store or transport failure on a primary path.
func Dependency(op string, err error) *Error {
	return Wrap(KindDependency, op, err)
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind sentinel of e.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the outermost classified error in the chain,
// or KindInternal when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns a client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindDependency || e.Kind == KindInternal {
			return "upstream dependency failed"
		}
		if e.Message != "" {
			return e.Message
		}
		return string(e.Kind)
	}
	return "internal server error"
}

// Classify returns err unchanged when it is already classified and wraps it
// as a dependency failure of op otherwise.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Dependency(op, err)
}
