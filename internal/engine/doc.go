// Package engine executes queries and mutations against tables held in a
// Collection Store.
//
// ARCHITECTURE:
//
// Read path (Query Executor):
//  1. Snapshot the table from the store (a fresh decode every time)
//  2. Keep rows matching every predicate (AND)
//  3. Stable-sort when an Ordering is present
//  4. Paginate: inclusive Range if set, else Limit
//  5. Project: the whole list, or the first row for SelectOne
//
// Apply implements steps 2-5 as a pure function of (snapshot, spec).
//
// Write path (Mutation Gateway):
// Every mutation is read-modify-write over the whole table: load the array,
// change it in memory, persist the whole array back. Two writers on the same
// table interleaving between read and write would lose an update, so the
// engine holds one mutex per table key for the duration of each mutation.
// Reads take no lock. Different tables never block each other.
//
// There are no cross-table transactions. A workflow touching two tables is
// two commits, and a failure between them is visible to readers.
//
// FAILURE CONTAINMENT:
//
// Every public operation returns an Envelope. Errors and panics inside an
// operation are converted to an *Error carried in the Envelope; nothing
// propagates past the engine boundary. An empty result is not an error.
//
// CANCELLATION:
//
// Operations take a context.Context. A context that is already done when an
// operation starts yields KindCanceled. Nothing is interrupted mid-way: once
// started, an operation runs to completion.
package engine
