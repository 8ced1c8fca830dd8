// Package reconcile rebuilds the holdings of an investment account over time
// and checks them against the positions recorded for it.
//
// An Account is a dense sequence of Days, indexed by their offset since the
// account was opened. Each Day holds the transactions recorded that day, in
// input order, and optionally the positions recorded at the end of it.
//
// Reconciling an Account between a start and an end day replays, day after
// day, the transactions that follow the start day onto the positions recorded
// on the start day, then compares the result with the positions recorded on
// the end day:
//
//   - Replay computes the positions.
//   - Reconcile returns the non-zero differences, recorded minus replayed.
//   - Report keeps both sides for rendering.
//
// Accounts are read from and written to a simple line format, see
// DecodeAccount.
package reconcile

// Version of the reconcile tool.
const Version = "1.0.0"
