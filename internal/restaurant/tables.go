package restaurant

import (
	"context"
	"fmt"

	"github.com/roach88/bistro/internal/record"
)

// AddTable registers a dining table.
func (s *Service) AddTable(ctx context.Context, number, seats int) Outcome[record.Record] {
	if seats <= 0 {
		return failed[record.Record]("A table needs at least one seat")
	}
	env := s.client.From(TableDining).Insert(ctx, record.Record{
		"number": number,
		"seats":  seats,
		"status": TableFree,
	})
	if env.Err != nil {
		s.logFailure(ctx, "add table", env.Err)
		return failed[record.Record]("Could not add table")
	}
	return succeeded(fmt.Sprintf("Table %d added", number), env.Data[0])
}

// AvailableTables lists free tables seating at least partySize, smallest
// first.
func (s *Service) AvailableTables(ctx context.Context, partySize int) Outcome[[]record.Record] {
	env := s.client.From(TableDining).Select().
		Eq("status", TableFree).
		Gte("seats", partySize).
		Order("seats", true).
		Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "available tables", env.Err)
		return failed[[]record.Record]("Could not load tables")
	}
	return succeeded(fmt.Sprintf("%d tables available", len(env.Data)), env.Data)
}

// SeatTable marks a table occupied.
func (s *Service) SeatTable(ctx context.Context, tableID any) Outcome[record.Record] {
	return s.setTableStatus(ctx, tableID, TableOccupied, "Table seated")
}

// FreeTable marks a table free.
func (s *Service) FreeTable(ctx context.Context, tableID any) Outcome[record.Record] {
	return s.setTableStatus(ctx, tableID, TableFree, "Table freed")
}

func (s *Service) setTableStatus(ctx context.Context, tableID any, status, message string) Outcome[record.Record] {
	env := s.client.From(TableDining).Update(record.Record{"status": status}).Eq("id", tableID).Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "set table status", env.Err)
		return failed[record.Record]("Could not update table")
	}
	if len(env.Data) == 0 {
		return failed[record.Record]("Table not found")
	}
	return succeeded(message, env.Data[0])
}
