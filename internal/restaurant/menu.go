package restaurant

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/bistro/internal/record"
)

// Menu lists available dishes by name. An empty category lists all.
func (s *Service) Menu(ctx context.Context, category string) Outcome[[]record.Record] {
	q := s.client.From(TableMenu).Select().Eq("available", true)
	if category != "" {
		q = q.Eq("category", category)
	}
	env := q.Order("name", true).Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "menu", env.Err)
		return failed[[]record.Record]("Could not load menu")
	}
	return succeeded(fmt.Sprintf("%d dishes", len(env.Data)), env.Data)
}

// SearchMenu lists available dishes whose name contains term, ignoring case
// and Unicode composition. Stored names are compared, never rewritten.
func (s *Service) SearchMenu(ctx context.Context, term string) Outcome[[]record.Record] {
	env := s.client.From(TableMenu).Select().Eq("available", true).Order("name", true).Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "search menu", env.Err)
		return failed[[]record.Record]("Could not load menu")
	}
	needle := foldName(term)
	hits := []record.Record{}
	for _, row := range env.Data {
		name, ok := row["name"].(string)
		if ok && strings.Contains(foldName(name), needle) {
			hits = append(hits, row)
		}
	}
	return succeeded(fmt.Sprintf("%d dishes", len(hits)), hits)
}

func foldName(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// MenuPage returns one page of the full menu, pageSize rows per page,
// numbered from zero.
func (s *Service) MenuPage(ctx context.Context, page, pageSize int) Outcome[[]record.Record] {
	if page < 0 || pageSize <= 0 {
		return failed[[]record.Record]("Invalid page")
	}
	from := page * pageSize
	env := s.client.From(TableMenu).Select().
		Order("name", true).
		Range(from, from+pageSize-1).
		Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "menu page", env.Err)
		return failed[[]record.Record]("Could not load menu")
	}
	return succeeded(fmt.Sprintf("Page %d", page), env.Data)
}

// SetAvailability marks a dish available or sold out.
func (s *Service) SetAvailability(ctx context.Context, menuID any, available bool) Outcome[record.Record] {
	env := s.client.From(TableMenu).Update(record.Record{"available": available}).Eq("id", menuID).Exec(ctx)
	if env.Err != nil {
		s.logFailure(ctx, "set availability", env.Err)
		return failed[record.Record]("Could not update dish")
	}
	if len(env.Data) == 0 {
		return failed[record.Record]("Dish not found")
	}
	return succeeded("Dish updated", env.Data[0])
}
