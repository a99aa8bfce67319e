package engine

import (
	"context"
	"fmt"

	"github.com/roach88/bistro/internal/record"
)

// Insert appends records to table and returns them as stored.
//
// Records without an id get one from the IDGenerator; created_at and
// updated_at are stamped when absent. Ids are not checked against existing
// rows. The caller's maps are not modified.
func (e *Engine) Insert(ctx context.Context, table string, records ...record.Record) (env Envelope[[]record.Record]) {
	const op = "insert"
	defer guard(e.logger, op, table, &env)

	if err := checkContext(ctx, op, table); err != nil {
		return fail[[]record.Record](err)
	}

	now := e.clock.Now()
	ts := FormatTimestamp(now)

	inserted := make([]record.Record, 0, len(records))
	for i, r := range records {
		row, err := record.Normalize(r)
		if err != nil {
			return fail[[]record.Record](newError(KindStorage, op, table, fmt.Errorf("record %d: %w", i, err)))
		}
		if !row.Has(record.FieldID) || row[record.FieldID] == nil {
			row[record.FieldID] = e.ids.Generate(now)
		}
		if !row.Has(record.FieldCreatedAt) {
			row[record.FieldCreatedAt] = ts
		}
		if !row.Has(record.FieldUpdatedAt) {
			row[record.FieldUpdatedAt] = ts
		}
		inserted = append(inserted, row)
	}

	unlock := e.locks.lock(table)
	defer unlock()

	rows := e.tables.Get(ctx, table)
	rows = append(rows, inserted...)
	if err := e.tables.Set(ctx, table, rows); err != nil {
		return fail[[]record.Record](newError(KindStorage, op, table, err))
	}

	e.logger.DebugContext(ctx, "rows inserted", "table", table, "count", len(inserted))
	return success(record.CloneAll(inserted))
}

// Update shallow-merges patch into every row whose field equals value and
// returns the updated rows.
//
// id and created_at in patch are ignored. updated_at is refreshed on matched
// rows only. Matching nothing is a success with an empty list.
func (e *Engine) Update(ctx context.Context, table string, patch record.Record, field string, value any) Envelope[[]record.Record] {
	return e.UpdateMatch(ctx, table, patch, map[string]any{field: value})
}

// UpdateMatch is Update with a row matching only when it equals every
// key/value pair in filters.
func (e *Engine) UpdateMatch(ctx context.Context, table string, patch record.Record, filters map[string]any) (env Envelope[[]record.Record]) {
	const op = "update"
	defer guard(e.logger, op, table, &env)

	if err := checkContext(ctx, op, table); err != nil {
		return fail[[]record.Record](err)
	}

	p, err := record.Normalize(patch)
	if err != nil {
		return fail[[]record.Record](newError(KindStorage, op, table, fmt.Errorf("patch: %w", err)))
	}
	delete(p, record.FieldID)
	delete(p, record.FieldCreatedAt)

	ts := FormatTimestamp(e.clock.Now())

	unlock := e.locks.lock(table)
	defer unlock()

	rows := e.tables.Get(ctx, table)
	updated := make([]record.Record, 0)
	for i, row := range rows {
		if !matchesAll(row, filters) {
			continue
		}
		merged := row.Clone()
		for k, v := range p.Clone() {
			merged[k] = v
		}
		merged[record.FieldUpdatedAt] = ts
		rows[i] = merged
		updated = append(updated, merged)
	}

	// Written even when nothing matched.
	if err := e.tables.Set(ctx, table, rows); err != nil {
		return fail[[]record.Record](newError(KindStorage, op, table, err))
	}

	e.logger.DebugContext(ctx, "rows updated", "table", table, "count", len(updated))
	return success(record.CloneAll(updated))
}

// Delete removes every row whose field equals value. Removing nothing is a
// success.
func (e *Engine) Delete(ctx context.Context, table, field string, value any) Envelope[struct{}] {
	return e.DeleteMatch(ctx, table, map[string]any{field: value})
}

// DeleteMatch removes every row equal to all key/value pairs in filters.
func (e *Engine) DeleteMatch(ctx context.Context, table string, filters map[string]any) (env Envelope[struct{}]) {
	const op = "delete"
	defer guard(e.logger, op, table, &env)

	if err := checkContext(ctx, op, table); err != nil {
		return fail[struct{}](err)
	}

	unlock := e.locks.lock(table)
	defer unlock()

	rows := e.tables.Get(ctx, table)
	kept := make([]record.Record, 0, len(rows))
	for _, row := range rows {
		if !matchesAll(row, filters) {
			kept = append(kept, row)
		}
	}

	if err := e.tables.Set(ctx, table, kept); err != nil {
		return fail[struct{}](newError(KindStorage, op, table, err))
	}

	e.logger.DebugContext(ctx, "rows deleted", "table", table, "count", len(rows)-len(kept))
	return success(struct{}{})
}
