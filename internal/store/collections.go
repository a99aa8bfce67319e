package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/bistro/internal/record"
)

// Lister is implemented by backends that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Collections reads and writes whole tables over a Backend.
type Collections struct {
	backend Backend
	logger  *slog.Logger
}

// NewCollections wraps a backend. A nil logger falls back to slog.Default().
func NewCollections(backend Backend, logger *slog.Logger) *Collections {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collections{backend: backend, logger: logger}
}

// Get returns the records stored under table, in insertion order.
//
// Never fails: an absent key, a backend error, or undecodable text all return
// an empty table. The last two are logged.
func (c *Collections) Get(ctx context.Context, table string) []record.Record {
	text, ok, err := c.backend.Load(ctx, table)
	if err != nil {
		c.logger.WarnContext(ctx, "table read failed, treating as empty",
			"table", table,
			"error", err,
		)
		return []record.Record{}
	}
	if !ok || text == "" {
		return []record.Record{}
	}

	rows, err := record.UnmarshalTable([]byte(text))
	if err != nil {
		c.logger.WarnContext(ctx, "table text malformed, treating as empty",
			"table", table,
			"error", err,
		)
		return []record.Record{}
	}
	return rows
}

// Set serializes rows and writes them under table, replacing the previous
// contents. Failures are logged and returned.
func (c *Collections) Set(ctx context.Context, table string, rows []record.Record) error {
	data, err := record.MarshalTable(rows)
	if err != nil {
		err = fmt.Errorf("encode table %q: %w", table, err)
		c.logger.ErrorContext(ctx, "table write failed", "table", table, "error", err)
		return err
	}

	if err := c.backend.Save(ctx, table, string(data)); err != nil {
		err = fmt.Errorf("write table %q: %w", table, err)
		c.logger.ErrorContext(ctx, "table write failed", "table", table, "error", err)
		return err
	}

	c.logger.DebugContext(ctx, "table written", "table", table, "rows", len(rows))
	return nil
}

// Tables lists stored table keys when the backend supports it.
func (c *Collections) Tables(ctx context.Context) ([]string, error) {
	l, ok := c.backend.(Lister)
	if !ok {
		return nil, fmt.Errorf("backend %T cannot list tables", c.backend)
	}
	return l.Keys(ctx)
}
