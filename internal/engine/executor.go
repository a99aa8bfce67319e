package engine

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/roach88/bistro/internal/query"
	"github.com/roach88/bistro/internal/record"
)

// Apply filters, sorts and paginates snapshot according to spec.
//
// Apply is pure: snapshot is not modified and the returned slice is freshly
// allocated (rows themselves are shared). The single flag is not applied here;
// see Select and SelectOne.
func Apply(snapshot []record.Record, spec query.Spec) ([]record.Record, error) {
	if err := query.Validate(spec); err != nil {
		return nil, err
	}

	preds := spec.Predicates()
	filtered := make([]record.Record, 0, len(snapshot))
	for _, row := range snapshot {
		if matches(row, preds) {
			filtered = append(filtered, row)
		}
	}

	if o, ok := spec.Ordering(); ok {
		sortRows(filtered, o)
	}

	if b, ok := spec.Bounds(); ok {
		return inclusiveRange(filtered, b), nil
	}
	if n, ok := spec.LimitCount(); ok && n < len(filtered) {
		return filtered[:n], nil
	}
	return filtered, nil
}

// sortRows stable-sorts rows by one field. Rows missing the field, or holding
// null, go last in either direction. Other values are grouped by type
// (numbers, strings, bools, then lists and objects) and compared within their
// group; lists and objects compare equal and keep their relative order.
func sortRows(rows []record.Record, o query.Ordering) {
	slices.SortStableFunc(rows, func(a, b record.Record) int {
		av, bv := a[o.Field], b[o.Field]
		switch {
		case av == nil && bv == nil:
			return 0
		case av == nil:
			return 1
		case bv == nil:
			return -1
		}
		c := compareForSort(av, bv)
		if !o.Ascending {
			return -c
		}
		return c
	})
}

// compareForSort is a total order over non-nil stored values.
func compareForSort(a, b any) int {
	if ra, rb := sortRank(a), sortRank(b); ra != rb {
		return cmp.Compare(ra, rb)
	}
	c, ok := record.Compare(a, b)
	if !ok {
		return 0
	}
	return c
}

func sortRank(v any) int {
	switch v.(type) {
	case int64, float64, int, int32, float32, uint32:
		return 0
	case string:
		return 1
	case bool:
		return 2
	}
	return 3
}

// inclusiveRange returns rows[From..To], both ends included, clipped to the
// slice. From > To or From past the end yields an empty slice.
func inclusiveRange(rows []record.Record, b query.Bounds) []record.Record {
	if b.From > b.To || b.From >= len(rows) {
		return rows[:0]
	}
	end := min(b.To+1, len(rows))
	return rows[b.From:end]
}

// Select runs spec against a fresh snapshot of table and returns the matching
// rows. When spec is Single the list holds at most the first row.
func (e *Engine) Select(ctx context.Context, table string, spec query.Spec) (env Envelope[[]record.Record]) {
	const op = "select"
	defer guard(e.logger, op, table, &env)

	if err := checkContext(ctx, op, table); err != nil {
		return fail[[]record.Record](err)
	}

	rows, err := e.run(ctx, op, table, spec)
	if err != nil {
		return fail[[]record.Record](err)
	}
	if spec.IsSingle() && len(rows) > 1 {
		rows = rows[:1]
	}
	return success(rows)
}

// SelectOne runs spec and returns its first row. No matching row is a
// success with nil Data.
func (e *Engine) SelectOne(ctx context.Context, table string, spec query.Spec) (env Envelope[record.Record]) {
	const op = "select"
	defer guard(e.logger, op, table, &env)

	if err := checkContext(ctx, op, table); err != nil {
		return fail[record.Record](err)
	}

	rows, err := e.run(ctx, op, table, spec.Single())
	if err != nil {
		return fail[record.Record](err)
	}
	if len(rows) == 0 {
		return success[record.Record](nil)
	}
	return success(rows[0])
}

func (e *Engine) run(ctx context.Context, op, table string, spec query.Spec) ([]record.Record, *Error) {
	rows, err := Apply(e.tables.Get(ctx, table), spec)
	if err != nil {
		e.logger.DebugContext(ctx, "query rejected",
			"table", table,
			"query", query.Explain(table, spec),
			"error", err,
		)
		return nil, newError(KindInvalidQuery, op, table, fmt.Errorf("%s: %w", query.Explain(table, spec), err))
	}
	return rows, nil
}
