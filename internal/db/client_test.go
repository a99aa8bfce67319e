package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bistro/internal/engine"
	"github.com/roach88/bistro/internal/record"
	"github.com/roach88/bistro/internal/store"
	"github.com/roach88/bistro/internal/testutil"
)

func newTestClient(t *testing.T) (*Client, *store.Memory) {
	t.Helper()
	return NewMemory(nil,
		engine.WithClock(testutil.NewStepClock()),
		engine.WithIDGenerator(engine.NewSequenceGenerator("")),
	)
}

func seedOrders(t *testing.T, c *Client) {
	t.Helper()
	env := c.From("orders").Insert(context.Background(),
		record.Record{"id": "o1", "table_id": 1, "total": 20, "status": "open"},
		record.Record{"id": "o2", "table_id": 2, "total": 35, "status": "open"},
		record.Record{"id": "o3", "table_id": 1, "total": 12, "status": "paid"},
		record.Record{"id": "o4", "table_id": 3, "total": 50, "status": "open"},
		record.Record{"id": "o5", "table_id": 2, "total": 8, "status": "paid"},
	)
	require.Nil(t, env.Err)
}

func idsOf(rows []record.Record) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r["id"]
	}
	return out
}

func TestQuery_Immutable(t *testing.T) {
	c, _ := newTestClient(t)
	seedOrders(t, c)
	ctx := context.Background()

	b1 := c.From("orders").Select().Gte("total", 10)
	b2 := b1.Eq("table_id", 1)
	_ = b1.Order("total", true).Limit(1)

	r1 := b1.Exec(ctx)
	r2 := b2.Exec(ctx)
	require.Nil(t, r1.Err)
	require.Nil(t, r2.Err)

	assert.Equal(t, []any{"o1", "o2", "o3", "o4"}, idsOf(r1.Data))
	assert.Equal(t, []any{"o1", "o3"}, idsOf(r2.Data))
	assert.Equal(t, "SELECT * FROM orders WHERE total >= 10", b1.Explain())
}

func TestQuery_PredicateOrderDoesNotMatter(t *testing.T) {
	c, _ := newTestClient(t)
	seedOrders(t, c)
	ctx := context.Background()
	orders := c.From("orders")

	a := orders.Select().Eq("status", "open").Gte("total", 20).In("table_id", []int{1, 2}).Exec(ctx)
	b := orders.Select().In("table_id", []int{1, 2}).Gte("total", 20).Eq("status", "open").Exec(ctx)
	require.Nil(t, a.Err)
	require.Nil(t, b.Err)
	assert.Equal(t, a.Data, b.Data)
	assert.Equal(t, []any{"o1", "o2"}, idsOf(a.Data))
}

func TestQuery_RangeAndLimit(t *testing.T) {
	c, _ := newTestClient(t)
	seedOrders(t, c)
	ctx := context.Background()
	sel := c.From("orders").Select()

	assert.Equal(t, []any{"o3", "o4", "o5"}, idsOf(sel.Range(2, 4).Exec(ctx).Data))
	assert.Equal(t, []any{"o1", "o2", "o3"}, idsOf(sel.Limit(3).Exec(ctx).Data))
	assert.Equal(t, []any{"o3", "o4", "o5"}, idsOf(sel.Limit(3).Range(2, 4).Exec(ctx).Data))
}

func TestQuery_OrderIsStable(t *testing.T) {
	c, _ := newTestClient(t)
	seedOrders(t, c)

	env := c.From("orders").Select().Order("status", true).Exec(context.Background())
	require.Nil(t, env.Err)
	assert.Equal(t, []any{"o1", "o2", "o4", "o3", "o5"}, idsOf(env.Data))
}

func TestSingle_MissingRowIsNilSuccess(t *testing.T) {
	c, _ := newTestClient(t)
	seedOrders(t, c)

	env := c.From("orders").Select().Eq("id", 999).Single().Exec(context.Background())
	assert.Nil(t, env.Err)
	assert.Nil(t, env.Data)
}

func TestSingle_FirstMatch(t *testing.T) {
	c, _ := newTestClient(t)
	seedOrders(t, c)

	q := c.From("orders").Select().Eq("status", "paid").Single()
	env := q.Exec(context.Background())
	require.Nil(t, env.Err)
	assert.Equal(t, "o3", env.Data["id"])
	assert.True(t, q.Spec().IsSingle())
	assert.Equal(t, `SELECT * FROM orders WHERE status = "paid" SINGLE`, q.Explain())
}

func TestInsertThenSelect_RoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	menu := c.From("menu")

	ins := menu.Insert(ctx, record.Record{"name": "x"})
	require.Nil(t, ins.Err)
	newID := ins.Data[0]["id"]

	got := menu.Select().Eq("id", newID).Single().Exec(ctx)
	require.Nil(t, got.Err)
	assert.Equal(t, "x", got.Data["name"])
	assert.Equal(t, newID, got.Data["id"])
	assert.Len(t, got.Data, 4)
}

func TestUpdateEq_MergesOnlyMatched(t *testing.T) {
	c, mem := newTestClient(t)
	seedOrders(t, c)
	ctx := context.Background()

	before, _, err := mem.Load(ctx, "orders")
	require.NoError(t, err)

	env := c.From("orders").Update(record.Record{"status": "done"}).Eq("id", "o2").Exec(ctx)
	require.Nil(t, env.Err)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "done", env.Data[0]["status"])
	assert.Equal(t, int64(35), env.Data[0]["total"])
	assert.NotEqual(t, env.Data[0]["created_at"], env.Data[0]["updated_at"])

	rows := c.From("orders").Select().Exec(ctx).Data
	prev, err := record.UnmarshalTable([]byte(before))
	require.NoError(t, err)
	for i, r := range rows {
		if r["id"] == "o2" {
			continue
		}
		assert.Equal(t, prev[i], r)
	}
}

func TestUpdateMatch(t *testing.T) {
	c, _ := newTestClient(t)
	seedOrders(t, c)
	ctx := context.Background()

	filters := map[string]any{"table_id": 2, "status": "open"}
	u := c.From("orders").Update(record.Record{"status": "paid"}).Match(filters)
	filters["status"] = "mutated after build"

	env := u.Exec(ctx)
	require.Nil(t, env.Err)
	assert.Equal(t, []any{"o2"}, idsOf(env.Data))
}

func TestDelete_EqAndMatch(t *testing.T) {
	c, _ := newTestClient(t)
	seedOrders(t, c)
	ctx := context.Background()
	orders := c.From("orders")

	require.Nil(t, orders.Delete().Eq("status", "paid").Exec(ctx).Err)
	require.Nil(t, orders.Delete().Match(map[string]any{"table_id": 3, "status": "open"}).Exec(ctx).Err)

	assert.Equal(t, []any{"o1", "o2"}, idsOf(orders.Select().Exec(ctx).Data))
}

func TestDelete_RepeatIsSafe(t *testing.T) {
	c, _ := newTestClient(t)
	seedOrders(t, c)
	ctx := context.Background()
	del := c.From("orders").Delete().Eq("id", "nope")

	first := del.Exec(ctx)
	second := del.Exec(ctx)
	assert.Nil(t, first.Err)
	assert.Equal(t, first, second)
}

func TestWriteFailure_IsReportedInEnvelope(t *testing.T) {
	c, mem := newTestClient(t)
	mem.SaveHook = func(string, string) error { return errors.New("quota exceeded") }

	env := c.From("orders").Insert(context.Background(), record.Record{"table_id": 1})
	require.NotNil(t, env.Err)
	assert.Equal(t, engine.KindStorage, env.Err.Kind)
	assert.Contains(t, env.Err.Error(), "quota exceeded")
}

func TestInvalidQuery_IsTyped(t *testing.T) {
	c, _ := newTestClient(t)

	env := c.From("orders").Select().In("table_id", 1).Exec(context.Background())
	require.NotNil(t, env.Err)
	assert.True(t, engine.IsKind(env.Err, engine.KindInvalidQuery))
}

func TestTable_Name(t *testing.T) {
	c, _ := newTestClient(t)
	assert.Equal(t, "payments", c.From("payments").Name())
}
