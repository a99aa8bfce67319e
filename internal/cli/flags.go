package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/bistro/internal/record"
)

// parseValue reads a flag value as JSON when it is valid JSON and as a plain
// string otherwise, so --eq status=open and --eq table_id=1 both work.
func parseValue(raw string) any {
	v, err := record.ParseJSON([]byte(raw))
	if err != nil {
		return raw
	}
	return v
}

// parsePair splits "field=value" and parses the value.
func parsePair(flag, pair string) (string, any, error) {
	field, raw, ok := strings.Cut(pair, "=")
	if !ok || field == "" {
		return "", nil, fmt.Errorf("--%s %q: expected field=value", flag, pair)
	}
	return field, parseValue(raw), nil
}

// parseList splits "field=v1,v2,..." into a field and a list operand.
func parseList(flag, pair string) (string, []any, error) {
	field, raw, ok := strings.Cut(pair, "=")
	if !ok || field == "" {
		return "", nil, fmt.Errorf("--%s %q: expected field=v1,v2", flag, pair)
	}
	if raw == "" {
		return field, []any{}, nil
	}
	parts := strings.Split(raw, ",")
	values := make([]any, len(parts))
	for i, p := range parts {
		values[i] = parseValue(p)
	}
	return field, values, nil
}

// parseMatch turns repeated field=value flags into a filter map.
func parseMatch(flag string, pairs []string) (map[string]any, error) {
	filters := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		field, value, err := parsePair(flag, pair)
		if err != nil {
			return nil, err
		}
		filters[field] = value
	}
	return filters, nil
}

// parseRange reads "from:to".
func parseRange(raw string) (int, int, error) {
	a, b, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, 0, fmt.Errorf("--range %q: expected from:to", raw)
	}
	from, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("--range %q: invalid from: %w", raw, err)
	}
	to, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("--range %q: invalid to: %w", raw, err)
	}
	return from, to, nil
}

// parseRecords reads a JSON object or an array of objects.
func parseRecords(raw string) ([]record.Record, error) {
	v, err := record.ParseJSON([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	switch val := v.(type) {
	case map[string]any:
		return []record.Record{val}, nil
	case []any:
		rows := make([]record.Record, len(val))
		for i, elem := range val {
			obj, ok := elem.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d is not a JSON object", i)
			}
			rows[i] = obj
		}
		return rows, nil
	}
	return nil, fmt.Errorf("expected a JSON object or array of objects")
}

// parsePatch reads a single JSON object.
func parsePatch(raw string) (record.Record, error) {
	v, err := record.ParseJSON([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("patch must be a JSON object")
	}
	return obj, nil
}
