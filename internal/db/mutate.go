package db

import (
	"context"
	"maps"

	"github.com/roach88/bistro/internal/engine"
	"github.com/roach88/bistro/internal/record"
)

// UpdateBuilder holds a patch until a row selector is chosen.
type UpdateBuilder struct {
	table Table
	patch record.Record
}

// Eq selects rows whose field equals value.
func (u UpdateBuilder) Eq(field string, value any) Update {
	return Update{table: u.table, patch: u.patch, field: field, value: value}
}

// Match selects rows equal to every key/value pair in filters.
func (u UpdateBuilder) Match(filters map[string]any) Update {
	return Update{table: u.table, patch: u.patch, filters: maps.Clone(filters), match: true}
}

// Update is a ready-to-run update.
type Update struct {
	table   Table
	patch   record.Record
	field   string
	value   any
	filters map[string]any
	match   bool
}

// Exec applies the update and returns the updated rows.
func (u Update) Exec(ctx context.Context) engine.Envelope[[]record.Record] {
	if u.match {
		return u.table.exec.UpdateMatch(ctx, u.table.name, u.patch, u.filters)
	}
	return u.table.exec.Update(ctx, u.table.name, u.patch, u.field, u.value)
}

// DeleteBuilder waits for a row selector.
type DeleteBuilder struct {
	table Table
}

// Eq selects rows whose field equals value.
func (d DeleteBuilder) Eq(field string, value any) Delete {
	return Delete{table: d.table, field: field, value: value}
}

// Match selects rows equal to every key/value pair in filters.
func (d DeleteBuilder) Match(filters map[string]any) Delete {
	return Delete{table: d.table, filters: maps.Clone(filters), match: true}
}

// Delete is a ready-to-run delete.
type Delete struct {
	table   Table
	field   string
	value   any
	filters map[string]any
	match   bool
}

// Exec removes the selected rows. Removing nothing is a success.
func (d Delete) Exec(ctx context.Context) engine.Envelope[struct{}] {
	if d.match {
		return d.table.exec.DeleteMatch(ctx, d.table.name, d.filters)
	}
	return d.table.exec.Delete(ctx, d.table.name, d.field, d.value)
}
