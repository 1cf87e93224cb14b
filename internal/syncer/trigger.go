package syncer

import (
	"context"
	"log/slog"
	"time"

	"github.com/tillware/tillsync/internal/upstream"
)

// Run executes the reconcile trigger loop until ctx is cancelled.
//
// A pass is triggered on every offline-to-online transition and, when the
// engine was built with WithReconcileInterval, periodically while online.
// Triggers are coalesced through a buffered signal channel: a burst of
// online edges from a flapping link collapses into one pending pass
// (Reconcile itself is also serialized, so nothing double-delivers even
// when a trigger lands mid-pass).
//
// Network-level reconcile failures are logged and the loop keeps going;
// a local-storage failure stops the loop and is returned.
func (e *Engine) Run(ctx context.Context, tokens upstream.TokenSource) error {
	trigger := make(chan struct{}, 1)
	signal := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	cancel := e.monitor.Subscribe(func(online bool) {
		if online {
			signal()
		}
	})
	defer cancel()

	// If we start out online, run an initial pass rather than waiting for
	// the first transition.
	if e.monitor.IsOnline() {
		signal()
	}

	var tick <-chan time.Time
	if e.interval > 0 {
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-trigger:
			if err := e.reconcileIfAuthenticated(ctx, tokens); err != nil {
				return err
			}
		case <-tick:
			if !e.monitor.IsOnline() {
				continue
			}
			if err := e.reconcileIfAuthenticated(ctx, tokens); err != nil {
				return err
			}
		}
	}
}

func (e *Engine) reconcileIfAuthenticated(ctx context.Context, tokens upstream.TokenSource) error {
	if !tokens.IsAuthenticated() {
		slog.Debug("reconcile skipped, no token available")
		return nil
	}
	_, err := e.Reconcile(ctx, tokens.CurrentToken())
	return err
}
