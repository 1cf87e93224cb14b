package testutil

import (
	"context"
	"sync"
)

// ManualProbe is a connectivity.Probe driven directly by tests.
//
// Thread-safety: safe for concurrent use via internal mutex.
type ManualProbe struct {
	mu     sync.Mutex
	online bool
}

// NewManualProbe creates a probe with the given initial observation.
func NewManualProbe(online bool) *ManualProbe {
	return &ManualProbe{online: online}
}

// Set changes what the probe reports.
func (p *ManualProbe) Set(online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online = online
}

// Online implements connectivity.Probe.
func (p *ManualProbe) Online(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}
