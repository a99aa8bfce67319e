package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/bistro/internal/db"
	"github.com/roach88/bistro/internal/engine"
	"github.com/roach88/bistro/internal/record"
	"github.com/roach88/bistro/internal/store"
	"github.com/roach88/bistro/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs scenarios with a deterministic clock and id generator.
type Harness struct {
	client *db.Client
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Execute setup inserts
// 3. Execute flow steps, tracing each Envelope and checking expectations
// 4. Evaluate assertions against the final store
//
// An error is returned only when the scenario could not be executed; failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	eng := engine.New(store.NewCollections(st, logger),
		engine.WithClock(testutil.NewStepClock()),
		engine.WithIDGenerator(engine.NewSequenceGenerator(scenario.IDPrefix)),
		engine.WithLogger(logger),
	)

	h := &Harness{
		client: db.New(eng),
		logger: logger,
	}

	ctx := context.Background()

	if err := h.executeSetup(ctx, scenario.Setup); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		ev, err := h.executeStep(ctx, i+1, &step)
		if err != nil {
			return nil, fmt.Errorf("flow step %d: %w", i, err)
		}
		result.AddTrace(ev)

		for _, msg := range checkExpect(step.Expect, ev) {
			result.AddError(fmt.Sprintf("flow[%d] %s %s: %s", i, step.Op, step.Table, msg))
		}
	}

	for _, msg := range EvaluateAssertions(ctx, h.client, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// executeSetup inserts setup rows. Setup must succeed.
func (h *Harness) executeSetup(ctx context.Context, setup []SetupStep) error {
	for i, step := range setup {
		env := h.client.From(step.Table).Insert(ctx, toRecords(step.Rows)...)
		if env.Err != nil {
			return fmt.Errorf("setup step %d: %w", i, env.Err)
		}
		h.logger.Info("setup step completed", "step", i, "table", step.Table, "rows", len(env.Data))
	}
	return nil
}

// executeStep runs one flow step and converts its Envelope to a TraceEvent.
func (h *Harness) executeStep(ctx context.Context, seq int, step *Step) (TraceEvent, error) {
	table := h.client.From(step.Table)
	ev := TraceEvent{Seq: seq, Op: step.Op, Table: step.Table}

	var failure *engine.Error
	switch step.Op {
	case OpInsert:
		env := table.Insert(ctx, toRecords(step.Rows)...)
		failure, ev.Data = env.Err, rowsData(env.Data)

	case OpSelect:
		q := table.SelectSpec(step.Spec())
		if step.Single {
			sq := q.Single()
			ev.Query = sq.Explain()
			env := sq.Exec(ctx)
			failure = env.Err
			if env.Data != nil {
				ev.Data = map[string]any(env.Data)
			}
		} else {
			ev.Query = q.Explain()
			env := q.Exec(ctx)
			failure, ev.Data = env.Err, rowsData(env.Data)
		}

	case OpUpdate:
		u := table.Update(record.Record(step.Patch))
		var env engine.Envelope[[]record.Record]
		if step.Eq != nil {
			env = u.Eq(step.Eq.Field, step.Eq.Value).Exec(ctx)
		} else {
			env = u.Match(step.Match).Exec(ctx)
		}
		failure, ev.Data = env.Err, rowsData(env.Data)

	case OpDelete:
		d := table.Delete()
		var env engine.Envelope[struct{}]
		if step.Eq != nil {
			env = d.Eq(step.Eq.Field, step.Eq.Value).Exec(ctx)
		} else {
			env = d.Match(step.Match).Exec(ctx)
		}
		failure = env.Err

	default:
		return ev, fmt.Errorf("unknown op %q", step.Op)
	}

	ev.Status = StatusOK
	if failure != nil {
		ev.Status = StatusError
		ev.Error = string(failure.Kind)
		ev.Data = nil
	}

	h.logger.Info("flow step completed",
		"seq", seq,
		"op", step.Op,
		"table", step.Table,
		"status", ev.Status,
	)
	return ev, nil
}

func toRecords(rows []map[string]any) []record.Record {
	out := make([]record.Record, len(rows))
	for i, r := range rows {
		out[i] = record.Record(r)
	}
	return out
}

// rowsData converts rows for the trace; nil stays nil so failures trace as
// null.
func rowsData(rows []record.Record) any {
	if rows == nil {
		return nil
	}
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = map[string]any(r)
	}
	return out
}
