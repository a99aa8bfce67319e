package query

import (
	"fmt"
	"strings"

	"github.com/roach88/bistro/internal/record"
)

// Explain renders a Spec as SQL-like text for diagnostics:
//
//	SELECT * FROM orders WHERE table_id = 1 ORDER BY created_at DESC LIMIT 1
//
// Only the pagination that will actually run is shown: when Range is set the
// output contains RANGE and no LIMIT. The text is for humans; nothing parses
// it back.
func Explain(table string, s Spec) string {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(table)

	if len(s.predicates) > 0 {
		parts := make([]string, 0, len(s.predicates))
		for _, p := range s.predicates {
			parts = append(parts, explainPredicate(p))
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(parts, " AND "))
	}

	if s.order != nil {
		dir := "ASC"
		if !s.order.Ascending {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", s.order.Field, dir)
	}

	switch {
	case s.bounds != nil:
		fmt.Fprintf(&b, " RANGE %d..%d", s.bounds.From, s.bounds.To)
	case s.limit != nil:
		fmt.Fprintf(&b, " LIMIT %d", *s.limit)
	}

	if s.single {
		b.WriteString(" SINGLE")
	}

	return b.String()
}

func explainPredicate(p Predicate) string {
	var sym string
	switch p.Op {
	case OpEq:
		sym = "="
	case OpGte:
		sym = ">="
	case OpLte:
		sym = "<="
	case OpIn:
		sym = "IN"
	default:
		sym = strings.ToUpper(string(p.Op))
	}
	return fmt.Sprintf("%s %s %s", p.Field, sym, explainValue(p.Operand))
}

func explainValue(v any) string {
	data, err := record.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<%T>", v)
	}
	return string(data)
}
