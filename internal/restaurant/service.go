package restaurant

import (
	"context"
	"log/slog"

	"github.com/roach88/bistro/internal/db"
	"github.com/roach88/bistro/internal/engine"
)

// Table keys.
const (
	TableOrders       = "orders"
	TableDining       = "tables"
	TablePayments     = "payments"
	TableReservations = "reservations"
	TableMenu         = "menu"
)

// Service implements the restaurant operations over a db.Client.
type Service struct {
	client *db.Client
	logger *slog.Logger
}

// New creates a Service. A nil logger falls back to slog.Default().
func New(client *db.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger}
}

// logFailure records the cause behind a failed Outcome.
func (s *Service) logFailure(ctx context.Context, action string, err *engine.Error) {
	s.logger.ErrorContext(ctx, "restaurant operation failed",
		"action", action,
		"kind", err.Kind,
		"error", err,
	)
}
