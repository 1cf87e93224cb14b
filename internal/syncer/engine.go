package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillware/tillsync/internal/connectivity"
	"github.com/tillware/tillsync/internal/record"
	"github.com/tillware/tillsync/internal/store"
)

// Deliverer is the upstream operation the engine consumes.
// Satisfied by *upstream.Client.
type Deliverer interface {
	PostTransaction(ctx context.Context, tx record.Transaction, token string) error
}

// Engine is the transaction queue and sync engine.
//
// Thread-safety model:
//   - RecordTransaction / AttemptImmediateSync: safe from any goroutine
//   - Reconcile: safe from any goroutine; passes are serialized internally
//   - Run: call from exactly one goroutine
type Engine struct {
	store     *store.Store
	monitor   *connectivity.Monitor
	deliverer Deliverer
	ids       record.TransactionIDGenerator
	now       func() time.Time

	// reconcileMu serializes reconcile passes so repeated online edges
	// from a flapping link cannot run two passes concurrently.
	reconcileMu sync.Mutex

	interval time.Duration // periodic reconcile while online; 0 disables
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator overrides the transaction id generator (tests).
func WithIDGenerator(gen record.TransactionIDGenerator) Option {
	return func(e *Engine) { e.ids = gen }
}

// WithClock overrides the wall clock (tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithReconcileInterval enables periodic reconciliation while online.
// The interval is a deployment-tunable knob; the only guarantee the engine
// makes is that every synced=false record eventually gets a delivery
// attempt once online.
func WithReconcileInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

// New creates an Engine wired to its store, monitor, and deliverer.
func New(s *store.Store, m *connectivity.Monitor, d Deliverer, opts ...Option) *Engine {
	e := &Engine{
		store:     s,
		monitor:   m,
		deliverer: d,
		ids:       record.UUIDv7Generator{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Draft is the caller-supplied half of a transaction: what was sold, where,
// and for how much. The engine assigns identity, timestamps, and sync state.
type Draft struct {
	LocationID string
	Kind       record.TransactionKind
	LineItems  []record.LineItem
	Total      decimal.Decimal
	TableRef   string
}

// RecordTransaction validates a draft, persists it, and returns the stored
// record. This must complete before any network delivery is attempted.
//
// The claimed total is recomputed from the line items; a mismatch is
// rejected with TotalMismatchError. A store failure here is fatal to the
// sale and surfaced - it is the one place the core must never swallow.
func (e *Engine) RecordTransaction(ctx context.Context, draft Draft) (record.Transaction, error) {
	if len(draft.LineItems) == 0 {
		return record.Transaction{}, ErrNoLineItems
	}

	tx := record.Transaction{
		ID:         e.ids.Generate(),
		LocationID: draft.LocationID,
		Kind:       draft.Kind,
		LineItems:  draft.LineItems,
		CreatedAt:  e.now().UTC(),
		Synced:     false,
		TableRef:   draft.TableRef,
	}

	computed := tx.ComputeTotal()
	if !draft.Total.Equal(computed) {
		return record.Transaction{}, &TotalMismatchError{
			TransactionID: tx.ID,
			Claimed:       draft.Total,
			Computed:      computed,
		}
	}
	tx.Total = computed

	if err := e.store.AddTransaction(ctx, tx); err != nil {
		return record.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}

	slog.Info("transaction recorded",
		"id", tx.ID, "location", tx.LocationID, "total", tx.Total.String())
	return tx, nil
}

// AttemptImmediateSync tries to deliver a just-recorded transaction while
// the user is still at the terminal. Returns whether delivery succeeded.
//
// Offline, missing token, and every network failure all land in the same
// place: the record stays synced=false for later reconciliation, and the
// caller tells the user "saved offline, will sync later" - never failure.
func (e *Engine) AttemptImmediateSync(ctx context.Context, tx record.Transaction, token string) (delivered bool, err error) {
	if token == "" || !e.monitor.IsOnline() {
		return false, nil
	}

	if err := e.deliverer.PostTransaction(ctx, tx, token); err != nil {
		slog.Warn("immediate sync failed, transaction queued",
			"id", tx.ID, "error", err)
		return false, nil
	}

	if err := e.store.MarkTransactionSynced(ctx, tx.ID); err != nil {
		// Delivered but the flag didn't commit: the record will be
		// redelivered on the next pass and deduplicated upstream.
		return true, fmt.Errorf("mark synced after delivery: %w", err)
	}

	slog.Info("transaction delivered", "id", tx.ID)
	return true, nil
}

// Report summarizes one reconciliation pass.
type Report struct {
	Attempted int `json:"attempted"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

// Reconcile delivers every synced=false transaction, flipping each flag as
// the upstream acknowledges it. Failures are logged and the record is left
// for the next pass. Reconcile is idempotent: the enumeration is by the
// synced=false index at call time, so nothing already acknowledged is ever
// re-sent by a later pass.
func (e *Engine) Reconcile(ctx context.Context, token string) (Report, error) {
	e.reconcileMu.Lock()
	defer e.reconcileMu.Unlock()

	pending, err := e.store.ListUnsyncedTransactions(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("reconcile: %w", err)
	}

	report := Report{Attempted: len(pending)}
	for _, tx := range pending {
		if err := e.deliverer.PostTransaction(ctx, tx, token); err != nil {
			slog.Warn("reconcile delivery failed, leaving queued",
				"id", tx.ID, "error", err)
			report.Failed++
			continue
		}
		if err := e.store.MarkTransactionSynced(ctx, tx.ID); err != nil {
			// Local storage broke mid-pass; stop rather than keep
			// delivering records whose flags can't commit.
			return report, fmt.Errorf("reconcile: mark synced %s: %w", tx.ID, err)
		}
		report.Delivered++
	}

	if report.Attempted > 0 {
		slog.Info("reconcile pass complete",
			"attempted", report.Attempted,
			"delivered", report.Delivered,
			"failed", report.Failed)
	}
	return report, nil
}
