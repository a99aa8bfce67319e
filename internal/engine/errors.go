package engine

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes engine errors.
type ErrorKind string

const (
	// KindInvalidQuery indicates caller misuse: an unknown operator, a bad
	// operand, or negative pagination bounds.
	KindInvalidQuery ErrorKind = "INVALID_QUERY"

	// KindStorage indicates the table could not be serialized or persisted.
	KindStorage ErrorKind = "STORAGE"

	// KindCanceled indicates the context was done before the operation began.
	KindCanceled ErrorKind = "CANCELED"

	// KindInternal indicates a recovered panic.
	KindInternal ErrorKind = "INTERNAL"
)

// Error is the error carried in a failed Envelope.
type Error struct {
	// Kind identifies the error category.
	Kind ErrorKind

	// Op is the operation that failed ("select", "insert", ...).
	Op string

	// Table is the table key involved.
	Table string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s: %s %s: %v", e.Kind, e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
// Uses errors.As to handle wrapped errors.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func newError(kind ErrorKind, op, table string, err error) *Error {
	return &Error{Kind: kind, Op: op, Table: table, Err: err}
}

// panicError converts a recovered value into an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
