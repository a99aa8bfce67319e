// Package store provides the Collection Store: a durable key↔text mapping
// holding one serialized table per key.
//
// Two layers:
//
//   - Backend: raw text persistence. Store (SQLite) is the durable backend;
//     Memory keeps text in a map for tests and the scenario harness.
//   - Collections: table-level Get/Set over a Backend. Get decodes the stored
//     text into records; Set encodes and writes through.
//
// # Failure Semantics
//
//   - Get never fails. A missing key, a backend read error, or text that does
//     not decode all yield an empty table. The cause is logged at WARN.
//   - Set reports every failure (encoding or backend write) to the log at
//     ERROR and also returns it, so the mutation gateway can surface it in the
//     envelope it hands back.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - one open connection: SQLite allows a single writer
//
// The store does not serialize read-modify-write cycles; that is the mutation
// gateway's job (per-table locks in internal/engine).
package store
