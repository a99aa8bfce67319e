package harness

import (
	"context"
	"fmt"

	"github.com/roach88/bistro/internal/db"
	"github.com/roach88/bistro/internal/record"
)

// AssertionError describes a failed assertion with context.
type AssertionError struct {
	Index    int
	Type     string
	Message  string
	Expected any
	Actual   any
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion %d (%s): %s\n  expected: %v\n  actual:   %v",
		e.Index, e.Type, e.Message, e.Expected, e.Actual)
}

// EvaluateAssertions checks all assertions against the final store and
// returns one message per failure.
func EvaluateAssertions(ctx context.Context, client *db.Client, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertFinalState:
			err = assertFinalState(ctx, client, i, a)
		case AssertTableCount:
			err = assertTableCount(ctx, client, i, a)
		default:
			err = &AssertionError{Index: i, Type: a.Type, Message: "unknown assertion type"}
		}
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

// assertFinalState requires at least one row matching Where, and every such
// row to contain the Expect fields.
func assertFinalState(ctx context.Context, client *db.Client, index int, a Assertion) error {
	q := client.From(a.Table).Select()
	for k, v := range a.Where {
		q = q.Eq(k, v)
	}
	env := q.Exec(ctx)
	if env.Err != nil {
		return &AssertionError{Index: index, Type: a.Type, Message: "select failed", Actual: env.Err}
	}
	if len(env.Data) == 0 {
		return &AssertionError{
			Index:    index,
			Type:     a.Type,
			Message:  fmt.Sprintf("no rows in %s match %v", a.Table, a.Where),
			Expected: a.Expect,
			Actual:   nil,
		}
	}
	for _, row := range env.Data {
		if msg := subsetMismatch(a.Expect, row); msg != "" {
			return &AssertionError{
				Index:    index,
				Type:     a.Type,
				Message:  msg,
				Expected: a.Expect,
				Actual:   map[string]any(row),
			}
		}
	}
	return nil
}

func assertTableCount(ctx context.Context, client *db.Client, index int, a Assertion) error {
	env := client.From(a.Table).Select().Exec(ctx)
	if env.Err != nil {
		return &AssertionError{Index: index, Type: a.Type, Message: "select failed", Actual: env.Err}
	}
	if len(env.Data) != a.Count {
		return &AssertionError{
			Index:    index,
			Type:     a.Type,
			Message:  fmt.Sprintf("row count mismatch in %s", a.Table),
			Expected: a.Count,
			Actual:   len(env.Data),
		}
	}
	return nil
}

// subsetMismatch returns a description of the first field in want that row
// lacks or holds a different value for; empty when row contains want.
func subsetMismatch(want map[string]any, row record.Record) string {
	for k, v := range want {
		got, ok := row[k]
		if !ok {
			return fmt.Sprintf("field %q missing", k)
		}
		if !record.Equal(got, v) {
			return fmt.Sprintf("field %q: expected %v, got %v", k, v, got)
		}
	}
	return ""
}

// checkExpect validates one traced step. A nil Expect requires success.
func checkExpect(exp *Expect, ev TraceEvent) []string {
	if exp == nil {
		if ev.Status != StatusOK {
			return []string{fmt.Sprintf("unexpected error %s", ev.Error)}
		}
		return nil
	}

	if exp.Error != "" {
		if ev.Status != StatusError || ev.Error != exp.Error {
			return []string{fmt.Sprintf("expected error %s, got status %s %s", exp.Error, ev.Status, ev.Error)}
		}
		return nil
	}
	if ev.Status != StatusOK {
		return []string{fmt.Sprintf("unexpected error %s", ev.Error)}
	}

	var failures []string
	if exp.Null && ev.Data != nil {
		failures = append(failures, fmt.Sprintf("expected no row, got %v", ev.Data))
	}

	rows, _ := ev.Data.([]any)
	if single, ok := ev.Data.(map[string]any); ok {
		rows = []any{single}
	}
	if exp.Count != nil && len(rows) != *exp.Count {
		failures = append(failures, fmt.Sprintf("expected %d rows, got %d", *exp.Count, len(rows)))
	}
	for i, want := range exp.Rows {
		if i >= len(rows) {
			failures = append(failures, fmt.Sprintf("row %d: missing", i))
			continue
		}
		got, _ := rows[i].(map[string]any)
		if msg := subsetMismatch(want, got); msg != "" {
			failures = append(failures, fmt.Sprintf("row %d: %s", i, msg))
		}
	}
	return failures
}
