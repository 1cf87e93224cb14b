// Package testutil provides deterministic substitutes for the parts of the
// terminal core that touch time, identifiers, and the network: a frozen
// wall clock, a fixed transaction ID generator, and a fake upstream that
// counts deliveries.
package testutil

import (
	"sync"
	"time"
)

// FrozenClock is a wall clock frozen at a fixed instant, advanced manually.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FrozenClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFrozenClock creates a clock frozen at the given instant.
func NewFrozenClock(at time.Time) *FrozenClock {
	return &FrozenClock{now: at}
}

// Now returns the frozen instant. Pass this method as a now-func option:
//
//	cache.WithCatalogClock(clk.Now)
func (c *FrozenClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FrozenClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
