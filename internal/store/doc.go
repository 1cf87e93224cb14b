// Package store implements the terminal's durable on-device store.
//
// The store is a single SQLite database per terminal holding three
// independent collections: locations, transactions, and settings. It is the
// exclusive owner of on-device records; caches and the sync engine go
// through it for every read and write.
//
// DESIGN:
//
// Single shared instance:
// One Store is constructed per process and injected into every component
// that needs it. There is no package-level singleton; construct with Open
// and pass the handle explicitly.
//
// Per-operation atomicity:
// Each method is individually atomic (a put/add either fully commits or not
// at all). There are no cross-collection transactions: recording a sale and
// later updating location state are independent commits.
//
// Schema lifecycle:
// Open applies the embedded schema idempotently and then runs additive-only
// migrations keyed off PRAGMA user_version. Reopening an existing database
// never drops data; destructive migrations are forbidden.
//
// Ordering:
// Index lookups (ListTransactionsByLocation, ListUnsyncedTransactions)
// return rows ordered by created_at for stable output, but callers must not
// depend on ordering beyond what they sort themselves.
package store
