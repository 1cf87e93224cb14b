// Package record defines the domain records persisted by the terminal core.
//
// Three record families exist, one per store collection:
//   - Location: a purchasable POS location (retail store or restaurant)
//   - Transaction: a completed sale or order, queued for upstream delivery
//   - Settings: a per-location opaque settings payload (catalog data)
//
// Records are plain data with JSON tags; all persistence lives in the store
// package and all mutation policy lives in the cache and sync packages.
//
// Money is represented with shopspring/decimal throughout. Floating point is
// never used for prices or totals.
package record
