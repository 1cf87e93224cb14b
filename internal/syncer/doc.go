// Package syncer implements the transaction queue and sync engine.
//
// Every completed sale is written to the durable store before any network
// delivery is attempted - durability precedes delivery. Delivery happens in
// two places:
//
//   - AttemptImmediateSync: an opportunistic single delivery right after
//     checkout, while the user is still at the terminal
//   - Reconcile: a pass over every synced=false record, run when
//     connectivity returns and optionally on a periodic interval
//
// ERROR BOUNDARY:
//
// Network failures never propagate past this package. They only ever delay
// a transaction's eventual delivery; the record stays queued and the caller
// is told "saved offline". Local-storage failures DO propagate: silently
// losing a completed sale is unacceptable, so a store error during
// RecordTransaction is fatal to that sale and surfaced to the user.
//
// IDEMPOTENCY:
//
// Reconcile enumerates by the synced=false index at call time, so a record
// is excluded from future passes the instant its flag flips. A pass
// interrupted between network acknowledgment and the flag commit will
// redeliver that one transaction on restart; the upstream deduplicates on
// transaction id, which is why ids are generated client-side and never
// reassigned.
//
// Reconcile passes are serialized: a flapping link fires many online edges
// in quick succession, and two concurrent passes over the same snapshot
// would double-deliver within the window where flags haven't committed.
package syncer
