package restaurant

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bistro/internal/db"
	"github.com/roach88/bistro/internal/engine"
	"github.com/roach88/bistro/internal/record"
	"github.com/roach88/bistro/internal/store"
	"github.com/roach88/bistro/internal/testutil"
)

type fixture struct {
	svc    *Service
	client *db.Client
	mem    *store.Memory
	logs   *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	client, mem := db.NewMemory(logger,
		engine.WithClock(testutil.NewStepClock()),
		engine.WithIDGenerator(engine.NewSequenceGenerator("")),
	)
	return &fixture{svc: New(client, logger), client: client, mem: mem, logs: &logs}
}

// failWrites makes every save to key fail.
func (f *fixture) failWrites(key string) {
	f.mem.SaveHook = func(k, _ string) error {
		if k == key {
			return errors.New("disk full")
		}
		return nil
	}
}

func (f *fixture) rows(t *testing.T, table string) []record.Record {
	t.Helper()
	env := f.client.From(table).Select().Exec(context.Background())
	require.Nil(t, env.Err)
	return env.Data
}

func soup() OrderItem {
	return OrderItem{MenuID: "m1", Name: "Soup", Price: 6.5, Quantity: 2}
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tbl := f.svc.AddTable(ctx, 4, 2)
	require.True(t, tbl.Success)

	out := f.svc.PlaceOrder(ctx, tbl.Data["id"], []OrderItem{soup(), {Name: "Tea", Price: 3, Quantity: 1}})
	require.True(t, out.Success, out.Message)
	assert.Equal(t, "Order placed", out.Message)
	assert.Equal(t, 16.0, out.Data["total"])
	assert.Equal(t, OrderOpen, out.Data["status"])

	assert.Equal(t, TableOccupied, f.rows(t, TableDining)[0]["status"])
}

func TestPlaceOrder_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.False(t, f.svc.PlaceOrder(ctx, 1, nil).Success)
	assert.False(t, f.svc.PlaceOrder(ctx, 1, []OrderItem{{Name: "Soup", Quantity: 0}}).Success)
	assert.Empty(t, f.rows(t, TableOrders))
}

func TestPlaceOrder_StoreFailureHidesCause(t *testing.T) {
	f := newFixture(t)
	f.failWrites(TableOrders)

	out := f.svc.PlaceOrder(context.Background(), 1, []OrderItem{soup()})
	assert.False(t, out.Success)
	assert.Equal(t, "Could not place order", out.Message)
	assert.NotContains(t, out.Message, "disk full")
	assert.Contains(t, f.logs.String(), "disk full")
}

func TestLatestOrderForTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, tableID := range []int{1, 1, 2} {
		require.True(t, f.svc.PlaceOrder(ctx, tableID, []OrderItem{soup()}).Success)
	}

	out := f.svc.LatestOrderForTable(ctx, 1)
	require.True(t, out.Success)
	assert.Equal(t, int64(2), out.Data["id"])

	none := f.svc.LatestOrderForTable(ctx, 9)
	assert.True(t, none.Success)
	assert.Nil(t, none.Data)
	assert.Equal(t, "No orders for this table", none.Message)
}

func TestOrdersForTableAndOpenOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, tableID := range []int{3, 5, 3} {
		require.True(t, f.svc.PlaceOrder(ctx, tableID, []OrderItem{soup()}).Success)
	}
	require.True(t, f.svc.SetOrderStatus(ctx, 3, OrderPaid).Success)

	forTable := f.svc.OrdersForTable(ctx, 3)
	require.True(t, forTable.Success)
	require.Len(t, forTable.Data, 2)
	assert.Equal(t, int64(1), forTable.Data[0]["id"])
	assert.Equal(t, int64(3), forTable.Data[1]["id"])

	open := f.svc.OpenOrders(ctx)
	require.True(t, open.Success)
	require.Len(t, open.Data, 2)
	assert.Equal(t, "2 open orders", open.Message)
}

func TestSetOrderStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.True(t, f.svc.PlaceOrder(ctx, 1, []OrderItem{soup()}).Success)

	assert.False(t, f.svc.SetOrderStatus(ctx, 1, "lost").Success)
	assert.Equal(t, "Order not found", f.svc.SetOrderStatus(ctx, 42, OrderServed).Message)

	out := f.svc.SetOrderStatus(ctx, 1, OrderServed)
	require.True(t, out.Success)
	assert.Equal(t, OrderServed, out.Data["status"])
}

func setupSettle(t *testing.T) (*fixture, any, any) {
	t.Helper()
	f := newFixture(t)
	ctx := context.Background()
	tbl := f.svc.AddTable(ctx, 7, 4)
	require.True(t, tbl.Success)
	order := f.svc.PlaceOrder(ctx, tbl.Data["id"], []OrderItem{soup()})
	require.True(t, order.Success)
	return f, tbl.Data["id"], order.Data["id"]
}

func TestSettle(t *testing.T) {
	f, _, orderID := setupSettle(t)
	ctx := context.Background()

	out := f.svc.Settle(ctx, orderID, "card")
	require.True(t, out.Success, out.Message)
	assert.Equal(t, "Payment recorded", out.Message)
	assert.Equal(t, int64(13), out.Data["amount"]) // 13.0 is stored as the integer literal 13
	assert.Equal(t, "card", out.Data["method"])

	assert.Equal(t, OrderPaid, f.rows(t, TableOrders)[0]["status"])
	assert.Equal(t, TableFree, f.rows(t, TableDining)[0]["status"])
	assert.Len(t, f.rows(t, TablePayments), 1)

	again := f.svc.Settle(ctx, orderID, "card")
	assert.False(t, again.Success)
	assert.Equal(t, "Order is already paid", again.Message)
}

func TestSettle_UnknownOrder(t *testing.T) {
	f := newFixture(t)
	out := f.svc.Settle(context.Background(), "nope", "cash")
	assert.False(t, out.Success)
	assert.Equal(t, "Order not found", out.Message)
}

// A failed payment write leaves the order marked paid: the first commit is
// not rolled back.
func TestSettle_PaymentWriteFailsAfterOrderCommitted(t *testing.T) {
	f, _, orderID := setupSettle(t)
	f.failWrites(TablePayments)

	out := f.svc.Settle(context.Background(), orderID, "cash")
	assert.False(t, out.Success)
	assert.Equal(t, "Order marked paid, but the payment was not recorded", out.Message)

	assert.Equal(t, OrderPaid, f.rows(t, TableOrders)[0]["status"])
	assert.Empty(t, f.rows(t, TablePayments))
	assert.Equal(t, TableOccupied, f.rows(t, TableDining)[0]["status"])
}

func TestSettle_TableWriteFails(t *testing.T) {
	f, _, orderID := setupSettle(t)
	f.failWrites(TableDining)

	out := f.svc.Settle(context.Background(), orderID, "cash")
	assert.True(t, out.Success)
	assert.Equal(t, "Payment recorded, but the table was not freed", out.Message)
	assert.Len(t, f.rows(t, TablePayments), 1)
	assert.Equal(t, TableOccupied, f.rows(t, TableDining)[0]["status"])
}

func TestTables(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, seats := range []int{6, 2, 4} {
		require.True(t, f.svc.AddTable(ctx, seats*10, seats).Success)
	}
	assert.False(t, f.svc.AddTable(ctx, 1, 0).Success)

	avail := f.svc.AvailableTables(ctx, 3)
	require.True(t, avail.Success)
	require.Len(t, avail.Data, 2)
	assert.Equal(t, int64(4), avail.Data[0]["seats"])
	assert.Equal(t, int64(6), avail.Data[1]["seats"])

	seated := f.svc.SeatTable(ctx, avail.Data[0]["id"])
	require.True(t, seated.Success)
	assert.Len(t, f.svc.AvailableTables(ctx, 3).Data, 1)

	require.True(t, f.svc.FreeTable(ctx, avail.Data[0]["id"]).Success)
	assert.Len(t, f.svc.AvailableTables(ctx, 3).Data, 2)

	assert.Equal(t, "Table not found", f.svc.FreeTable(ctx, 99).Message)
}

func TestReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	late := f.svc.Book(ctx, Reservation{Name: "Ada", PartySize: 2, Date: "2024-06-01", Time: "20:00", TableID: 1})
	require.True(t, late.Success, late.Message)
	early := f.svc.Book(ctx, Reservation{Name: "Grace", PartySize: 4, Date: "2024-06-01", Time: "18:30"})
	require.True(t, early.Success, early.Message)
	require.True(t, f.svc.Book(ctx, Reservation{Name: "Alan", PartySize: 3, Date: "2024-06-02", Time: "19:00"}).Success)

	clash := f.svc.Book(ctx, Reservation{Name: "Linus", PartySize: 2, Date: "2024-06-01", Time: "20:00", TableID: 1})
	assert.False(t, clash.Success)
	assert.Equal(t, "That table is already booked at this time", clash.Message)

	assert.False(t, f.svc.Book(ctx, Reservation{Name: "Bad", PartySize: 2, Date: "June 1", Time: "20:00"}).Success)
	assert.False(t, f.svc.Book(ctx, Reservation{PartySize: 2, Date: "2024-06-01", Time: "20:00"}).Success)

	day := f.svc.ReservationsOn(ctx, "2024-06-01")
	require.True(t, day.Success)
	require.Len(t, day.Data, 2)
	assert.Equal(t, "Grace", day.Data[0]["name"])
	assert.Equal(t, "Ada", day.Data[1]["name"])

	canceled := f.svc.CancelReservation(ctx, late.Data["id"])
	require.True(t, canceled.Success)
	assert.False(t, f.svc.CancelReservation(ctx, late.Data["id"]).Success)
	assert.Len(t, f.svc.ReservationsOn(ctx, "2024-06-01").Data, 1)

	// The slot is free again once canceled.
	assert.True(t, f.svc.Book(ctx, Reservation{Name: "Linus", PartySize: 2, Date: "2024-06-01", Time: "20:00", TableID: 1}).Success)

	require.True(t, f.svc.PurgeCanceled(ctx, "2024-06-01").Success)
	assert.Len(t, f.rows(t, TableReservations), 3)
}

func TestMenu(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	env := f.client.From(TableMenu).Insert(ctx,
		record.Record{"id": "m1", "name": "Tart", "category": "dessert", "available": true},
		record.Record{"id": "m2", "name": "Soup", "category": "starter", "available": true},
		record.Record{"id": "m3", "name": "Salad", "category": "starter", "available": false},
		record.Record{"id": "m4", "name": "Risotto", "category": "main", "available": true},
	)
	require.Nil(t, env.Err)

	all := f.svc.Menu(ctx, "")
	require.True(t, all.Success)
	assert.Equal(t, []any{"Risotto", "Soup", "Tart"}, names(all.Data))

	starters := f.svc.Menu(ctx, "starter")
	assert.Equal(t, []any{"Soup"}, names(starters.Data))

	require.True(t, f.svc.SetAvailability(ctx, "m3", true).Success)
	assert.Equal(t, []any{"Salad", "Soup"}, names(f.svc.Menu(ctx, "starter").Data))
	assert.False(t, f.svc.SetAvailability(ctx, "m9", true).Success)

	page0 := f.svc.MenuPage(ctx, 0, 3)
	page1 := f.svc.MenuPage(ctx, 1, 3)
	assert.Equal(t, []any{"Risotto", "Salad", "Soup"}, names(page0.Data))
	assert.Equal(t, []any{"Tart"}, names(page1.Data))
	assert.False(t, f.svc.MenuPage(ctx, -1, 3).Success)
}

func TestSearchMenu_IgnoresCaseAndComposition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	env := f.client.From(TableMenu).Insert(ctx,
		record.Record{"id": "m1", "name": "Cafe\u0301 au lait", "available": true},
		record.Record{"id": "m2", "name": "CAF\u00c9 GLAC\u00c9", "available": true},
		record.Record{"id": "m3", "name": "Tea", "available": true},
		record.Record{"id": "m4", "name": "Caf\u00e9 noir", "available": false},
	)
	require.Nil(t, env.Err)

	out := f.svc.SearchMenu(ctx, "caf\u00e9")
	require.True(t, out.Success)
	assert.Equal(t, []any{"CAF\u00c9 GLAC\u00c9", "Cafe\u0301 au lait"}, names(out.Data))

	none := f.svc.SearchMenu(ctx, "coffee")
	require.True(t, none.Success)
	assert.Empty(t, none.Data)
}

func names(rows []record.Record) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r["name"]
	}
	return out
}
