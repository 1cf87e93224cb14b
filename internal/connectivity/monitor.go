// Package connectivity tracks the terminal's online/offline state.
//
// The monitor holds a single boolean seeded from an initial probe and fires
// subscriber callbacks on every transition. Transitions are edge-triggered
// with no debouncing: a flapping link fires many notifications in quick
// succession, so consumers (the sync trigger in particular) must be
// idempotent under repeated "online" edges.
package connectivity

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Probe reports whether the upstream is currently reachable.
// Implemented by HTTPProbe (production) and testutil.ManualProbe (tests).
type Probe interface {
	Online(ctx context.Context) bool
}

// Monitor tracks online/offline state and notifies subscribers on change.
//
// Thread-safety model:
//   - IsOnline(): safe from any goroutine, never suspends
//   - Subscribe(): safe from any goroutine
//   - SetOnline(): safe from any goroutine; callbacks run on the caller's
//     goroutine, outside the monitor's lock
//   - Watch(): run from exactly one goroutine
type Monitor struct {
	mu     sync.Mutex
	online bool
	subs   map[int]func(online bool)
	nextID int
}

// NewMonitor creates a monitor seeded with the given initial state.
// Production callers seed from a construction-time probe:
//
//	m := connectivity.NewMonitor(probe.Online(ctx))
func NewMonitor(initial bool) *Monitor {
	return &Monitor{
		online: initial,
		subs:   make(map[int]func(bool)),
	}
}

// IsOnline returns the current state instantaneously.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers a callback invoked once per transition with the new
// state. The returned cancel func removes the subscription; a long-lived
// terminal singleton may simply discard it.
func (m *Monitor) Subscribe(cb func(online bool)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = cb

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// SetOnline records a new observation of the platform connectivity signal.
// Subscribers are notified only when the state actually changes.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online

	// Snapshot subscribers so callbacks run outside the lock. A callback
	// that subscribes or cancels won't deadlock.
	cbs := make([]func(bool), 0, len(m.subs))
	for _, cb := range m.subs {
		cbs = append(cbs, cb)
	}
	m.mu.Unlock()

	slog.Info("connectivity transition", "online", online)
	for _, cb := range cbs {
		cb(online)
	}
}

// Watch polls the probe at the given interval until ctx is cancelled,
// feeding each observation into SetOnline. This is the Go analog of the
// platform's online/offline events.
func (m *Monitor) Watch(ctx context.Context, probe Probe, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SetOnline(probe.Online(ctx))
		}
	}
}

// HTTPProbe checks reachability with a HEAD request against a base URL.
// Any response at all counts as online; only transport failure is offline
// (a 5xx still proves the link is up).
type HTTPProbe struct {
	URL    string
	Client *http.Client
}

// DefaultProbeTimeout bounds a single reachability check.
const DefaultProbeTimeout = 3 * time.Second

// Online performs the reachability check.
func (p HTTPProbe) Online(ctx context.Context) bool {
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultProbeTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if err != nil {
		return false
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
