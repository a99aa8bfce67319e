package db

import (
	"context"

	"github.com/roach88/bistro/internal/engine"
	"github.com/roach88/bistro/internal/query"
	"github.com/roach88/bistro/internal/record"
)

// Query is an immutable select against one table. Every method returns a new
// Query; a Query can be kept as a template and executed any number of times,
// each time against fresh data.
type Query struct {
	table Table
	spec  query.Spec
}

// Eq keeps rows where field equals value.
func (q Query) Eq(field string, value any) Query {
	q.spec = q.spec.Eq(field, value)
	return q
}

// Gte keeps rows where field >= value.
func (q Query) Gte(field string, value any) Query {
	q.spec = q.spec.Gte(field, value)
	return q
}

// Lte keeps rows where field <= value.
func (q Query) Lte(field string, value any) Query {
	q.spec = q.spec.Lte(field, value)
	return q
}

// In keeps rows where field equals one of values.
func (q Query) In(field string, values any) Query {
	q.spec = q.spec.In(field, values)
	return q
}

// Order sorts by field, replacing any earlier Order.
func (q Query) Order(field string, ascending bool) Query {
	q.spec = q.spec.Order(field, ascending)
	return q
}

// Limit keeps the first n rows. Range takes precedence when both are set.
func (q Query) Limit(n int) Query {
	q.spec = q.spec.Limit(n)
	return q
}

// Range keeps rows from through to, inclusive.
func (q Query) Range(from, to int) Query {
	q.spec = q.spec.Range(from, to)
	return q
}

// Single switches to a single-row result.
func (q Query) Single() SingleQuery {
	return SingleQuery{q: Query{table: q.table, spec: q.spec.Single()}}
}

// Spec returns the underlying query.
func (q Query) Spec() query.Spec {
	return q.spec
}

// Explain renders the query for humans.
func (q Query) Explain() string {
	return query.Explain(q.table.name, q.spec)
}

// Exec runs the query.
func (q Query) Exec(ctx context.Context) engine.Envelope[[]record.Record] {
	return q.table.exec.Select(ctx, q.table.name, q.spec)
}

// SingleQuery is a Query projected to its first row.
type SingleQuery struct {
	q Query
}

// Spec returns the underlying query.
func (s SingleQuery) Spec() query.Spec {
	return s.q.spec
}

// Explain renders the query for humans.
func (s SingleQuery) Explain() string {
	return s.q.Explain()
}

// Exec runs the query. No matching row is a success with nil Data.
func (s SingleQuery) Exec(ctx context.Context) engine.Envelope[record.Record] {
	return s.q.table.exec.SelectOne(ctx, s.q.table.name, s.q.spec)
}
