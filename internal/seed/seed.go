package seed

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/bistro/internal/db"
)

// Report counts the rows inserted per table.
type Report struct {
	Inserted map[string]int
}

// Total returns the number of rows inserted across tables.
func (r Report) Total() int {
	n := 0
	for _, c := range r.Inserted {
		n += c
	}
	return n
}

// Seed inserts every fixture table through client. Tables are inserted
// concurrently, one insert per table; rows keep their declared order.
//
// Seeding appends: existing rows are kept. The first failing table cancels
// the remaining work and its error is returned; tables that already committed
// stay committed.
func Seed(ctx context.Context, client *db.Client, fx *Fixtures, logger *slog.Logger) (Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	names := fx.Names()
	counts := make([]int, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		rows := fx.Tables[name]
		if len(rows) == 0 {
			continue
		}
		g.Go(func() error {
			env := client.From(name).Insert(gctx, rows...)
			if env.Err != nil {
				return fmt.Errorf("seed table %q: %w", name, env.Err)
			}
			counts[i] = len(env.Data)
			logger.InfoContext(gctx, "table seeded", "table", name, "rows", len(env.Data))
			return nil
		})
	}

	err := g.Wait()

	report := Report{Inserted: make(map[string]int, len(names))}
	for i, name := range names {
		if counts[i] > 0 {
			report.Inserted[name] = counts[i]
		}
	}
	return report, err
}
