package restaurant

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/bistro/internal/record"
)

// Reservation is a booking request.
type Reservation struct {
	Name      string
	PartySize int
	Date      string // YYYY-MM-DD
	Time      string // HH:MM
	TableID   any
}

// Reservation statuses.
const (
	ReservationBooked   = "booked"
	ReservationSeated   = "seated"
	ReservationCanceled = "canceled"
)

// Book stores a reservation. A table already booked for the same date and
// time is refused.
func (s *Service) Book(ctx context.Context, r Reservation) Outcome[record.Record] {
	if r.Name == "" || r.PartySize <= 0 {
		return failed[record.Record]("Name and party size are required")
	}
	if _, err := time.Parse("2006-01-02 15:04", r.Date+" "+r.Time); err != nil {
		return failed[record.Record]("Invalid date or time")
	}

	reservations := s.client.From(TableReservations)
	if r.TableID != nil {
		clash := reservations.Select().
			Eq("table_id", r.TableID).
			Eq("date", r.Date).
			Eq("time", r.Time).
			Eq("status", ReservationBooked).
			Single().
			Exec(ctx)
		if clash.Err != nil {
			s.logFailure(ctx, "book: check clash", clash.Err)
			return failed[record.Record]("Could not check availability")
		}
		if clash.Data != nil {
			return failed[record.Record]("That table is already booked at this time")
		}
	}

	env := reservations.Insert(ctx, record.Record{
		"name":       r.Name,
		"party_size": r.PartySize,
		"date":       r.Date,
		"time":       r.Time,
		"table_id":   r.TableID,
		"status":     ReservationBooked,
	})
	if env.Err != nil {
		s.logFailure(ctx, "book", env.Err)
		return failed[record.Record]("Could not book reservation")
	}
	return succeeded(fmt.Sprintf("Reserved for %s", r.Name), env.Data[0])
}

// ReservationsOn lists a day's bookings in time order.
func (s *Service) ReservationsOn(ctx context.Context, date string) Outcome[[]record.Record] {
	env := s.client.From(TableReservations).Select().
		Eq("date", date).
		Eq("status", ReservationBooked).
		Order("time", true).
		Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "reservations on", env.Err)
		return failed[[]record.Record]("Could not load reservations")
	}
	return succeeded(fmt.Sprintf("%d reservations", len(env.Data)), env.Data)
}

// CancelReservation marks a booking canceled.
func (s *Service) CancelReservation(ctx context.Context, id any) Outcome[record.Record] {
	env := s.client.From(TableReservations).Update(record.Record{"status": ReservationCanceled}).
		Match(map[string]any{"id": id, "status": ReservationBooked}).
		Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "cancel reservation", env.Err)
		return failed[record.Record]("Could not cancel reservation")
	}
	if len(env.Data) == 0 {
		return failed[record.Record]("No active reservation with that id")
	}
	return succeeded("Reservation canceled", env.Data[0])
}

// PurgeCanceled deletes canceled bookings for a date.
func (s *Service) PurgeCanceled(ctx context.Context, date string) Outcome[struct{}] {
	env := s.client.From(TableReservations).Delete().
		Match(map[string]any{"date": date, "status": ReservationCanceled}).
		Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "purge canceled", env.Err)
		return failed[struct{}]("Could not purge reservations")
	}
	return succeeded("Canceled reservations removed", struct{}{})
}
