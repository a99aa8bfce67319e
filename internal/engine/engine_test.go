package engine

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/bistro/internal/record"
	"github.com/roach88/bistro/internal/store"
	"github.com/roach88/bistro/internal/testutil"
)

// testEngine bundles an Engine over an in-memory backend with deterministic
// time and ids.
type testEngine struct {
	*Engine
	mem  *store.Memory
	logs *bytes.Buffer
}

func newTestEngine(t *testing.T, opts ...Option) *testEngine {
	t.Helper()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mem := store.NewMemory()
	base := []Option{
		WithClock(testutil.NewStepClock()),
		WithIDGenerator(NewSequenceGenerator("")),
		WithLogger(logger),
	}
	e := New(store.NewCollections(mem, logger), append(base, opts...)...)
	return &testEngine{Engine: e, mem: mem, logs: &logs}
}

// mustInsert inserts rows and fails the test on error.
func (te *testEngine) mustInsert(t *testing.T, table string, rows ...record.Record) []record.Record {
	t.Helper()
	env := te.Insert(context.Background(), table, rows...)
	require.Nil(t, env.Err)
	return env.Data
}

// snapshot returns the table as persisted.
func (te *testEngine) snapshot(t *testing.T, table string) []record.Record {
	t.Helper()
	text, ok, err := te.mem.Load(context.Background(), table)
	require.NoError(t, err)
	if !ok {
		return nil
	}
	rows, err := record.UnmarshalTable([]byte(text))
	require.NoError(t, err)
	return rows
}

// panickingTables panics on every call.
type panickingTables struct{}

func (panickingTables) Get(context.Context, string) []record.Record {
	panic("disk on fire")
}

func (panickingTables) Set(context.Context, string, []record.Record) error {
	panic("disk on fire")
}
