// Package harness replays scenario files against the store and compares the
// resulting traces with golden files.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: latest_order_for_table
//	description: "The newest order of a table wins"
//	id_prefix: "o"          # optional; ids are o1, o2, ... (numeric if empty)
//	setup:
//	  - table: orders
//	    rows:
//	      - { table_id: 1, status: open }
//	  - table: orders
//	    rows:
//	      - { table_id: 1, status: open }
//	flow:
//	  - op: select
//	    table: orders
//	    where:
//	      - { field: table_id, op: eq, value: 1 }
//	    order: { field: created_at, ascending: false }
//	    limit: 1
//	    expect:
//	      count: 1
//	      rows: [{ id: "o2" }]
//	  - op: update
//	    table: orders
//	    patch: { status: paid }
//	    eq: { field: id, value: "o2" }
//	  - op: delete
//	    table: orders
//	    match: { status: paid }
//	assertions:
//	  - type: final_state
//	    table: orders
//	    where: { id: "o1" }
//	    expect: { status: open }
//	  - type: table_count
//	    table: orders
//	    count: 1
//
// Flow ops are insert, select, update and delete. Select supports where
// (eq, gte, lte, in, or any other op to provoke INVALID_QUERY), order, limit,
// range ([from, to]) and single. Expectations compare the Envelope: error
// kind, row count, rows (subset match, in order) and null for single selects.
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store with a step
// clock starting at 2024-01-01T12:00:00.000Z (one second per insert or update
// call) and a
// sequence id generator, so traces are byte-identical across runs.
//
// # Golden Files
//
// Traces are serialized as canonical JSON and compared with
// testdata/golden/<name>.golden. To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
