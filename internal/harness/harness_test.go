package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestRun_InsertAndSelect(t *testing.T) {
	scenario := &Scenario{
		Name:        "insert_select",
		Description: "Insert then read back",
		Flow: []Step{
			{
				Op:    OpInsert,
				Table: "orders",
				Rows:  []map[string]any{{"table_id": 1}, {"table_id": 2}},
			},
			{
				Op:    OpSelect,
				Table: "orders",
				Where: []Predicate{{Field: "table_id", Op: "eq", Value: 2}},
				Expect: &Expect{
					Count: intPtr(1),
					Rows:  []map[string]any{{"id": 2}},
				},
			},
		},
		Assertions: []Assertion{
			{Type: AssertTableCount, Table: "orders", Count: 2},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass, result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, OpInsert, result.Trace[0].Op)
	assert.Equal(t, StatusOK, result.Trace[0].Status)
	assert.Equal(t, `SELECT * FROM orders WHERE table_id = 2`, result.Trace[1].Query)
}

func TestRun_SetupNotTraced(t *testing.T) {
	scenario := &Scenario{
		Name:        "with_setup",
		Description: "Setup rows are visible but not traced",
		IDPrefix:    "r",
		Setup: []SetupStep{
			{Table: "reservations", Rows: []map[string]any{{"guest": "Ada"}}},
		},
		Flow: []Step{
			{
				Op:     OpSelect,
				Table:  "reservations",
				Single: true,
				Expect: &Expect{Rows: []map[string]any{{"id": "r1", "guest": "Ada"}}},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Len(t, result.Trace, 1)
}

func TestRun_ExpectedErrorKind(t *testing.T) {
	scenario := &Scenario{
		Name:        "invalid_query",
		Description: "Unknown operator",
		Flow: []Step{
			{
				Op:     OpSelect,
				Table:  "menu",
				Where:  []Predicate{{Field: "price", Op: "between", Value: 3}},
				Expect: &Expect{Error: "INVALID_QUERY"},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, StatusError, result.Trace[0].Status)
	assert.Equal(t, "INVALID_QUERY", result.Trace[0].Error)
	assert.Nil(t, result.Trace[0].Data)
}

func TestRun_UnexpectedErrorFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "unexpected_error",
		Description: "A failing step without an expectation fails the run",
		Flow: []Step{
			{
				Op:    OpSelect,
				Table: "menu",
				Where: []Predicate{{Field: "price", Op: "between", Value: 3}},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unexpected error INVALID_QUERY")
}

func TestRun_UpdateAndDeleteWithMatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "update_delete",
		Description: "Update by match, delete by eq",
		Setup: []SetupStep{
			{Table: "tables", Rows: []map[string]any{
				{"number": 1, "status": "free"},
				{"number": 2, "status": "occupied"},
			}},
		},
		Flow: []Step{
			{
				Op:     OpUpdate,
				Table:  "tables",
				Patch:  map[string]any{"status": "free", "id": 99},
				Match:  map[string]any{"number": 2, "status": "occupied"},
				Expect: &Expect{Count: intPtr(1), Rows: []map[string]any{{"id": 2, "status": "free"}}},
			},
			{
				Op:    OpDelete,
				Table: "tables",
				Eq:    &EqClause{Field: "number", Value: 1},
			},
		},
		Assertions: []Assertion{
			{Type: AssertTableCount, Table: "tables", Count: 1},
			{Type: AssertFinalState, Table: "tables", Where: map[string]any{"number": 2}, Expect: map[string]any{"status": "free"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_FailedExpectations(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "Every expectation is wrong",
		Flow: []Step{
			{
				Op:     OpInsert,
				Table:  "orders",
				Rows:   []map[string]any{{"status": "open"}},
				Expect: &Expect{Count: intPtr(2), Rows: []map[string]any{{"status": "paid"}}},
			},
			{
				Op:     OpSelect,
				Table:  "orders",
				Single: true,
				Expect: &Expect{Null: true},
			},
		},
		Assertions: []Assertion{
			{Type: AssertTableCount, Table: "orders", Count: 3},
			{Type: AssertFinalState, Table: "orders", Where: map[string]any{"status": "paid"}, Expect: map[string]any{"total": 1}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "expected 2 rows, got 1")
	assert.Contains(t, result.Errors[1], `row 0: field "status": expected paid, got open`)
	assert.Contains(t, result.Errors[2], "expected no row")
	assert.Contains(t, result.Errors[3], "row count mismatch in orders")
	assert.Contains(t, result.Errors[4], "no rows in orders match")
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/orders_flow.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := TraceJSON(first)
	require.NoError(t, err)
	b, err := TraceJSON(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)

	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
