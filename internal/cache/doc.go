// Package cache implements the read-through caches the POS screens draw
// from: the location cache and the per-location settings/catalog cache.
//
// Both follow the same policy, evaluated in order:
//
//  1. Online with a token: attempt a live fetch, persist on success.
//  2. Otherwise (or on fetch failure): serve the durable store's contents.
//  3. Store also empty: locations fall back to a built-in seed set (and
//     persist it); the catalog has no seed - empty is a legitimate state.
//
// Fetch failures are swallowed and logged, never surfaced, as long as a
// later step yields a result. Local-storage failures are surfaced: a
// terminal whose device storage is broken must not pretend to work.
// Every result carries a Source so the UI can flag offline/cached mode.
package cache
