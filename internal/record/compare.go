package record

import (
	"cmp"
	"math"
	"reflect"
	"strings"
)

// Compare orders two values.
//
// Numbers of any width compare numerically, strings byte-wise and bools with
// false < true. Any other pairing, including a nil on either side, is
// incomparable and reported with ok == false.
func Compare(a, b any) (c int, ok bool) {
	if fa, aok := toFloat(a); aok {
		if fb, bok := toFloat(b); bok {
			// Exact integer comparison when both sides are integral avoids
			// float rounding above 2^53.
			if ia, iok := toInt(a); iok {
				if ib, jok := toInt(b); jok {
					return cmp.Compare(ia, ib), true
				}
			}
			return cmp.Compare(fa, fb), true
		}
		return 0, false
	}

	switch av := a.(type) {
	case string:
		if bv, bok := b.(string); bok {
			return strings.Compare(av, bv), true
		}
	case bool:
		if bv, bok := b.(bool); bok {
			switch {
			case av == bv:
				return 0, true
			case !av:
				return -1, true
			default:
				return 1, true
			}
		}
	}
	return 0, false
}

// Equal reports whether two values are equal under the store's rules.
//
// Numbers are equal when numerically equal regardless of width; a number never
// equals a string holding the same digits. Nested maps and lists compare
// structurally.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if c, ok := Compare(a, b); ok {
		return c == 0
	}
	if IsList(a) || isMap(a) {
		na, errA := NormalizeValue(a)
		nb, errB := NormalizeValue(b)
		if errA != nil || errB != nil {
			return false
		}
		return deepEqual(na, nb)
	}
	return false
}

func deepEqual(a, b any) bool {
	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, present := bv[k]
			if !present || !Equal(v, w) {
				return false
			}
		}
		return true
	default:
		return Equal(a, b)
	}
}

func isMap(v any) bool {
	switch v.(type) {
	case map[string]any, Record:
		return true
	}
	return reflect.ValueOf(v).Kind() == reflect.Map
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	}
	return 0, false
}
