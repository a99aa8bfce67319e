// Package restaurant holds the business operations of the restaurant app:
// orders, dining tables, payments, reservations and the menu.
//
// Every operation goes through a db.Client and reports an Outcome rather than
// an error. Store failures are logged with their cause and surfaced as a short
// message; the cause is never shown to the caller.
//
// Workflows spanning several tables commit each step separately. Settle, for
// example, marks the order paid, records the payment and frees the table as
// three independent writes; when a later step fails the earlier ones stay
// applied and the Outcome message says which step did not happen.
package restaurant
