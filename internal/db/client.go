// Package db is the table-oriented client every data-access module uses.
//
// A Client hands out Table handles by name. Each Table exposes the fixed verb
// set select, insert, update and delete; selects are built as immutable
// queries and run only when Exec is called:
//
//	env := client.From("orders").Select().
//		Eq("table_id", 1).
//		Order("created_at", false).
//		Limit(1).
//		Exec(ctx)
//	if env.Err != nil { ... }
//
// Every Exec returns an engine.Envelope; nothing panics or returns a bare
// error past this package.
package db

import (
	"context"
	"log/slog"

	"github.com/roach88/bistro/internal/engine"
	"github.com/roach88/bistro/internal/query"
	"github.com/roach88/bistro/internal/record"
	"github.com/roach88/bistro/internal/store"
)

// Executor is the engine surface the client drives. *engine.Engine
// implements it.
type Executor interface {
	Select(ctx context.Context, table string, spec query.Spec) engine.Envelope[[]record.Record]
	SelectOne(ctx context.Context, table string, spec query.Spec) engine.Envelope[record.Record]
	Insert(ctx context.Context, table string, records ...record.Record) engine.Envelope[[]record.Record]
	Update(ctx context.Context, table string, patch record.Record, field string, value any) engine.Envelope[[]record.Record]
	UpdateMatch(ctx context.Context, table string, patch record.Record, filters map[string]any) engine.Envelope[[]record.Record]
	Delete(ctx context.Context, table, field string, value any) engine.Envelope[struct{}]
	DeleteMatch(ctx context.Context, table string, filters map[string]any) engine.Envelope[struct{}]
}

var _ Executor = (*engine.Engine)(nil)

// Client is the entry point for table access.
type Client struct {
	exec Executor
}

// New creates a Client over exec.
func New(exec Executor) *Client {
	return &Client{exec: exec}
}

// NewMemory creates a Client over a fresh in-memory backend. The backend is
// returned so tests can inspect or corrupt the stored text.
func NewMemory(logger *slog.Logger, opts ...engine.Option) (*Client, *store.Memory) {
	mem := store.NewMemory()
	opts = append([]engine.Option{engine.WithLogger(logger)}, opts...)
	return New(engine.New(store.NewCollections(mem, logger), opts...)), mem
}

// From returns a handle to the named table. Handles are cheap and hold no
// state beyond the name.
func (c *Client) From(table string) Table {
	return Table{exec: c.exec, name: table}
}

// Table is a handle to one table.
type Table struct {
	exec Executor
	name string
}

// Name returns the table key.
func (t Table) Name() string {
	return t.name
}

// Select starts a query matching every row.
func (t Table) Select() Query {
	return Query{table: t, spec: query.New()}
}

// SelectSpec starts a query from a prebuilt query.Spec.
func (t Table) SelectSpec(spec query.Spec) Query {
	return Query{table: t, spec: spec}
}

// Insert stores records and returns them with their ids and timestamps.
func (t Table) Insert(ctx context.Context, records ...record.Record) engine.Envelope[[]record.Record] {
	return t.exec.Insert(ctx, t.name, records...)
}

// Update starts an update applying patch to the rows chosen by Eq or Match.
func (t Table) Update(patch record.Record) UpdateBuilder {
	return UpdateBuilder{table: t, patch: patch}
}

// Delete starts a delete of the rows chosen by Eq or Match.
func (t Table) Delete() DeleteBuilder {
	return DeleteBuilder{table: t}
}
