package query

import (
	"errors"
	"fmt"

	"github.com/roach88/bistro/internal/record"
)

// ErrInvalid is the sentinel wrapped by every validation error.
var ErrInvalid = errors.New("invalid query")

// Error describes one piece of caller misuse.
type Error struct {
	// Field is the predicate or order field involved, if any.
	Field string

	// Reason is a human-readable description.
	Reason string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid query: field %q: %s", e.Field, e.Reason)
	}
	return "invalid query: " + e.Reason
}

// Unwrap lets errors.Is(err, ErrInvalid) match.
func (e *Error) Unwrap() error {
	return ErrInvalid
}

// Validate checks a Spec for caller misuse and returns the first problem.
//
// Rules:
//  1. Every predicate names a field and uses a known operator
//  2. In operands are lists
//  3. Operands are storable values
//  4. Order names a field
//  5. Limit and Range bounds are non-negative
//
// Fields are not checked against any schema; tables are schema-less and a
// predicate on an absent field simply matches nothing.
func Validate(s Spec) error {
	for i, p := range s.predicates {
		if p.Field == "" {
			return &Error{Reason: fmt.Sprintf("predicate %d has an empty field name", i)}
		}
		if !p.Op.Known() {
			return &Error{Field: p.Field, Reason: fmt.Sprintf("unknown operator %q", p.Op)}
		}
		if p.Op == OpIn && !record.IsList(p.Operand) {
			return &Error{Field: p.Field, Reason: fmt.Sprintf("in operand must be a list, got %T", p.Operand)}
		}
		if _, err := record.NormalizeValue(p.Operand); err != nil {
			return &Error{Field: p.Field, Reason: fmt.Sprintf("operand: %v", err)}
		}
	}

	if s.order != nil && s.order.Field == "" {
		return &Error{Reason: "order has an empty field name"}
	}

	if s.limit != nil && *s.limit < 0 {
		return &Error{Reason: fmt.Sprintf("limit must be non-negative, got %d", *s.limit)}
	}

	if s.bounds != nil && (s.bounds.From < 0 || s.bounds.To < 0) {
		return &Error{Reason: fmt.Sprintf("range bounds must be non-negative, got [%d, %d]", s.bounds.From, s.bounds.To)}
	}

	return nil
}
