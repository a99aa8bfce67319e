package restaurant

import (
	"context"
	"fmt"

	"github.com/roach88/bistro/internal/record"
)

// Order statuses.
const (
	OrderOpen   = "open"
	OrderServed = "served"
	OrderPaid   = "paid"
)

// Dining table statuses.
const (
	TableFree     = "free"
	TableOccupied = "occupied"
	TableReserved = "reserved"
)

// OrderItem is one line of an order.
type OrderItem struct {
	MenuID   any
	Name     string
	Price    float64
	Quantity int
}

// PlaceOrder opens an order for a dining table and marks the table occupied.
func (s *Service) PlaceOrder(ctx context.Context, tableID any, items []OrderItem) Outcome[record.Record] {
	if len(items) == 0 {
		return failed[record.Record]("An order needs at least one item")
	}

	lines := make([]any, 0, len(items))
	var total float64
	for _, it := range items {
		if it.Quantity <= 0 {
			return failed[record.Record](fmt.Sprintf("Invalid quantity for %s", it.Name))
		}
		total += it.Price * float64(it.Quantity)
		lines = append(lines, map[string]any{
			"menu_id":  it.MenuID,
			"name":     it.Name,
			"price":    it.Price,
			"quantity": it.Quantity,
		})
	}

	env := s.client.From(TableOrders).Insert(ctx, record.Record{
		"table_id": tableID,
		"items":    lines,
		"total":    total,
		"status":   OrderOpen,
	})
	if env.Err != nil {
		s.logFailure(ctx, "place order", env.Err)
		return failed[record.Record]("Could not place order")
	}
	order := env.Data[0]

	occupy := s.client.From(TableDining).Update(record.Record{"status": TableOccupied}).Eq("id", tableID).Exec(ctx)
	if occupy.Err != nil {
		s.logFailure(ctx, "occupy table", occupy.Err)
		return succeeded("Order placed, but the table status was not updated", order)
	}
	return succeeded("Order placed", order)
}

// OrdersForTable lists a dining table's orders, oldest first.
func (s *Service) OrdersForTable(ctx context.Context, tableID any) Outcome[[]record.Record] {
	env := s.client.From(TableOrders).Select().
		Eq("table_id", tableID).
		Order("created_at", true).
		Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "list orders", env.Err)
		return failed[[]record.Record]("Could not load orders")
	}
	return succeeded(fmt.Sprintf("%d orders", len(env.Data)), env.Data)
}

// LatestOrderForTable returns the most recent order of a dining table. No
// order is a success with nil data.
func (s *Service) LatestOrderForTable(ctx context.Context, tableID any) Outcome[record.Record] {
	env := s.client.From(TableOrders).Select().
		Eq("table_id", tableID).
		Order("created_at", false).
		Limit(1).
		Single().
		Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "latest order", env.Err)
		return failed[record.Record]("Could not load orders")
	}
	if env.Data == nil {
		return succeeded[record.Record]("No orders for this table", nil)
	}
	return succeeded("Latest order", env.Data)
}

// OpenOrders lists every unpaid order, oldest first.
func (s *Service) OpenOrders(ctx context.Context) Outcome[[]record.Record] {
	env := s.client.From(TableOrders).Select().
		In("status", []string{OrderOpen, OrderServed}).
		Order("created_at", true).
		Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "open orders", env.Err)
		return failed[[]record.Record]("Could not load orders")
	}
	return succeeded(fmt.Sprintf("%d open orders", len(env.Data)), env.Data)
}

// SetOrderStatus changes an order's status.
func (s *Service) SetOrderStatus(ctx context.Context, orderID any, status string) Outcome[record.Record] {
	switch status {
	case OrderOpen, OrderServed, OrderPaid:
	default:
		return failed[record.Record](fmt.Sprintf("Unknown order status %q", status))
	}

	env := s.client.From(TableOrders).Update(record.Record{"status": status}).Eq("id", orderID).Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "set order status", env.Err)
		return failed[record.Record]("Could not update order")
	}
	if len(env.Data) == 0 {
		return failed[record.Record]("Order not found")
	}
	return succeeded("Order updated", env.Data[0])
}

// Settle takes payment for an order: the order is marked paid, a payment is
// recorded and the order's table is freed.
//
// The three writes are separate commits. If a later one fails the earlier
// ones remain, and the message names what is left undone.
func (s *Service) Settle(ctx context.Context, orderID any, method string) Outcome[record.Record] {
	found := s.client.From(TableOrders).Select().Eq("id", orderID).Single().Exec(ctx)
	if found.Err != nil {
		s.logFailure(ctx, "settle: load order", found.Err)
		return failed[record.Record]("Could not load order")
	}
	order := found.Data
	if order == nil {
		return failed[record.Record]("Order not found")
	}
	if order["status"] == OrderPaid {
		return failed[record.Record]("Order is already paid")
	}

	paid := s.client.From(TableOrders).Update(record.Record{"status": OrderPaid}).Eq("id", orderID).Exec(ctx)
	if paid.Err != nil {
		s.logFailure(ctx, "settle: mark paid", paid.Err)
		return failed[record.Record]("Could not settle order")
	}

	payment := s.client.From(TablePayments).Insert(ctx, record.Record{
		"order_id": orderID,
		"amount":   order["total"],
		"method":   method,
	})
	if payment.Err != nil {
		s.logFailure(ctx, "settle: record payment", payment.Err)
		return failed[record.Record]("Order marked paid, but the payment was not recorded")
	}

	freed := s.client.From(TableDining).Update(record.Record{"status": TableFree}).Eq("id", order["table_id"]).Exec(ctx)
	if freed.Err != nil {
		s.logFailure(ctx, "settle: free table", freed.Err)
		return succeeded("Payment recorded, but the table was not freed", payment.Data[0])
	}
	return succeeded("Payment recorded", payment.Data[0])
}
