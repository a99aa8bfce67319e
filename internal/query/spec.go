package query

import (
	"slices"

	"github.com/roach88/bistro/internal/record"
)

// Op is a predicate operator.
type Op string

const (
	OpEq  Op = "eq"
	OpGte Op = "gte"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

// Known reports whether op is one of the supported operators.
func (op Op) Known() bool {
	switch op {
	case OpEq, OpGte, OpLte, OpIn:
		return true
	}
	return false
}

// Predicate is one filter condition: <Field> <Op> <Operand>.
type Predicate struct {
	Field   string
	Op      Op
	Operand any
}

// Ordering is a single-key sort.
type Ordering struct {
	Field     string
	Ascending bool
}

// Bounds is an inclusive [From, To] row window.
type Bounds struct {
	From int
	To   int
}

// Spec describes one query. The zero value matches every row in insertion
// order.
type Spec struct {
	predicates []Predicate
	order      *Ordering
	limit      *int
	bounds     *Bounds
	single     bool
}

// New returns an empty Spec.
func New() Spec {
	return Spec{}
}

// Eq adds the predicate field == value.
func (s Spec) Eq(field string, value any) Spec {
	return s.Where(Predicate{Field: field, Op: OpEq, Operand: value})
}

// Gte adds the predicate field >= value.
func (s Spec) Gte(field string, value any) Spec {
	return s.Where(Predicate{Field: field, Op: OpGte, Operand: value})
}

// Lte adds the predicate field <= value.
func (s Spec) Lte(field string, value any) Spec {
	return s.Where(Predicate{Field: field, Op: OpLte, Operand: value})
}

// In adds the predicate field ∈ values. values must be a slice or array.
func (s Spec) In(field string, values any) Spec {
	return s.Where(Predicate{Field: field, Op: OpIn, Operand: values})
}

// Where adds an arbitrary predicate. Unknown operators are accepted here and
// rejected by Validate.
func (s Spec) Where(p Predicate) Spec {
	// Operands are copied into the canonical value set so later changes to a
	// caller's slice cannot leak into the Spec.
	if nv, err := record.NormalizeValue(p.Operand); err == nil {
		p.Operand = nv
	}

	next := s.clone()
	next.predicates = append(next.predicates, p)
	return next
}

// Order sorts by field, replacing any earlier Order.
func (s Spec) Order(field string, ascending bool) Spec {
	next := s.clone()
	next.order = &Ordering{Field: field, Ascending: ascending}
	return next
}

// Limit keeps at most n rows from the start. Ignored when Range is set.
func (s Spec) Limit(n int) Spec {
	next := s.clone()
	next.limit = &n
	return next
}

// Range keeps rows from through to, both inclusive. Takes precedence over
// Limit.
func (s Spec) Range(from, to int) Spec {
	next := s.clone()
	next.bounds = &Bounds{From: from, To: to}
	return next
}

// Single projects the result to its first row.
func (s Spec) Single() Spec {
	next := s.clone()
	next.single = true
	return next
}

// Predicates returns a copy of the predicates in the order they were added.
func (s Spec) Predicates() []Predicate {
	return slices.Clone(s.predicates)
}

// Ordering returns the sort, if any.
func (s Spec) Ordering() (Ordering, bool) {
	if s.order == nil {
		return Ordering{}, false
	}
	return *s.order, true
}

// LimitCount returns the limit, if any.
func (s Spec) LimitCount() (int, bool) {
	if s.limit == nil {
		return 0, false
	}
	return *s.limit, true
}

// Bounds returns the inclusive range, if any.
func (s Spec) Bounds() (Bounds, bool) {
	if s.bounds == nil {
		return Bounds{}, false
	}
	return *s.bounds, true
}

// IsSingle reports whether the single projection is requested.
func (s Spec) IsSingle() bool {
	return s.single
}

// clone copies the Spec. Pointer fields are only ever replaced, never written
// through, so sharing them between Specs is safe.
func (s Spec) clone() Spec {
	next := s
	next.predicates = slices.Clone(s.predicates)
	return next
}
