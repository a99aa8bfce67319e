package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/bistro/internal/record"
)

// Tables is the Collection Store contract the engine runs against.
//
// Get never fails: missing or unreadable tables are empty. Set replaces the
// whole table and reports write failures.
type Tables interface {
	Get(ctx context.Context, table string) []record.Record
	Set(ctx context.Context, table string, rows []record.Record) error
}

// Engine executes queries and mutations against a Tables store.
//
// Thread-safety: safe for concurrent use. Mutations on the same table are
// serialized; everything else runs concurrently.
type Engine struct {
	tables Tables
	clock  Clock
	ids    IDGenerator
	logger *slog.Logger
	locks  *tableLocks
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for timestamps. Default SystemClock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithIDGenerator sets the id generator. Default TimeRandomGenerator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.ids = g
		}
	}
}

// WithLogger sets the logger. Default slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine over tables.
func New(tables Tables, opts ...Option) *Engine {
	e := &Engine{
		tables: tables,
		clock:  SystemClock{},
		ids:    TimeRandomGenerator{},
		logger: slog.Default(),
		locks:  newTableLocks(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.clock = newMonotonicClock(e.clock)
	return e
}

// guard converts a panic in the enclosing operation into a failed Envelope.
// Must be deferred directly.
func guard[T any](logger *slog.Logger, op, table string, env *Envelope[T]) {
	r := recover()
	if r == nil {
		return
	}
	logger.Error("engine operation panicked",
		"op", op,
		"table", table,
		"panic", r,
	)
	*env = fail[T](newError(KindInternal, op, table, panicError(r)))
}

// checkContext yields KindCanceled when ctx is already done.
func checkContext(ctx context.Context, op, table string) *Error {
	if err := ctx.Err(); err != nil {
		return newError(KindCanceled, op, table, err)
	}
	return nil
}
