package engine

import (
	"fmt"
	"reflect"

	"github.com/roach88/bistro/internal/query"
	"github.com/roach88/bistro/internal/record"
)

// matches reports whether row satisfies every predicate. A row without the
// predicate's field never matches.
func matches(row record.Record, preds []query.Predicate) bool {
	for _, p := range preds {
		v, ok := row[p.Field]
		if !ok || !evaluate(v, p) {
			return false
		}
	}
	return true
}

func evaluate(v any, p query.Predicate) bool {
	switch p.Op {
	case query.OpEq:
		return record.Equal(v, p.Operand)
	case query.OpGte:
		c, ok := record.Compare(v, p.Operand)
		return ok && c >= 0
	case query.OpLte:
		c, ok := record.Compare(v, p.Operand)
		return ok && c <= 0
	case query.OpIn:
		return containsEqual(p.Operand, v)
	}
	// Validate rejects unknown operators before evaluation.
	panic(fmt.Sprintf("unknown operator %q", p.Op))
}

func containsEqual(list, v any) bool {
	if items, ok := list.([]any); ok {
		for _, item := range items {
			if record.Equal(v, item) {
				return true
			}
		}
		return false
	}
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := range rv.Len() {
		if record.Equal(v, rv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

// matchesAll reports whether row[k] equals v for every pair in filters.
// An empty filter map matches every row.
func matchesAll(row record.Record, filters map[string]any) bool {
	for k, want := range filters {
		got, ok := row[k]
		if !ok || !record.Equal(got, want) {
			return false
		}
	}
	return true
}
