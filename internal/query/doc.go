// Package query provides the immutable query description used by every read
// against a table.
//
// A Spec is a plain value. Each builder method returns a new Spec and never
// touches its receiver, so a partially built Spec can be kept and reused as a
// template:
//
//	open := query.New().Eq("status", "open")
//	byTable := open.Eq("table_id", 4).Order("created_at", false)
//	latest := byTable.Limit(1)
//	// open and byTable still describe their original queries.
//
// # Semantics
//
//   - Predicates (Eq, Gte, Lte, In) combine with AND. The order they were added
//     never changes which rows match.
//   - Order replaces any earlier Order; only one sort key is supported.
//   - Limit and Range are independent. When both are set, Range wins and Limit
//     is ignored.
//   - Range bounds are inclusive on both ends: Range(2, 4) selects rows 2, 3
//     and 4.
//   - Single changes projection only: the first row, or nothing.
//
// A Spec carries no table and no store. Execution lives in internal/engine,
// which re-reads the table on every run; nothing is memoized.
//
// # Validation
//
// Builders cannot fail, so misuse is detected when a Spec is executed.
// Validate reports the first problem as a *Error wrapping ErrInvalid.
package query
