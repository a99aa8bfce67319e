// Package record defines the schema-less Record stored in every table and the
// value rules the rest of bistro relies on.
//
// A Record is an open map of field name to value. Values entering the store are
// normalized to a small closed set of Go types so that comparison, equality and
// serialization behave the same whether a record came from a caller, a CUE
// fixture, or a row decoded from disk:
//
//	nil, bool, string, int64, float64, []any, map[string]any
//
// Numbers compare numerically regardless of width (int64(1) equals float64(1)).
// Strings compare byte-wise. Everything else is either structurally equal or
// incomparable.
//
// # Canonical text
//
// Tables persist as one JSON array per key. Marshal writes RFC 8785-style
// canonical JSON: object keys sorted by UTF-16 code units, strings kept
// byte for byte, no HTML escaping. Identical tables therefore produce identical
// bytes, which keeps golden files and SQLite rows stable across runs.
//
// Unlike hash canonicalization, floats and nulls are allowed here: prices and
// optional fields are ordinary restaurant data.
package record
