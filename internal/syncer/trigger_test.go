package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillware/tillsync/internal/connectivity"
	"github.com/tillware/tillsync/internal/testutil"
	"github.com/tillware/tillsync/internal/upstream"
)

func TestRun_OnlineEdgeTriggersReconcile(t *testing.T) {
	s := openTestStore(t)
	up := testutil.NewFakeUpstream()
	monitor := connectivity.NewMonitor(false)
	e := New(s, monitor, up,
		WithIDGenerator(testutil.NewFixedIDGenerator("txn-1", "txn-2", "txn-3")))

	// Queue three sales while offline.
	ctx := context.Background()
	for _, total := range []string{"10", "25.50", "7.25"} {
		_, err := e.RecordTransaction(ctx, draftFor("retail-001", total))
		require.NoError(t, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- e.Run(runCtx, upstream.StaticTokenSource("tok")) }()

	// Connectivity returns: every queued record must be delivered.
	monitor.SetOnline(true)
	require.Eventually(t, func() bool { return up.PostCount() == 3 },
		2*time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"txn-1", "txn-2", "txn-3"}, up.PostedIDs())

	pendingGone := func() bool {
		pending, err := s.ListUnsyncedTransactions(ctx)
		return err == nil && len(pending) == 0
	}
	require.Eventually(t, pendingGone, 2*time.Second, 10*time.Millisecond)

	// A flap after the queue drained must not redeliver anything.
	monitor.SetOnline(false)
	monitor.SetOnline(true)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 3, up.PostCount(), "flapping redelivered acknowledged records")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRun_StartsOnlineRunsInitialPass(t *testing.T) {
	s := openTestStore(t)
	up := testutil.NewFakeUpstream()
	e := New(s, connectivity.NewMonitor(true), up,
		WithIDGenerator(testutil.NewFixedIDGenerator("txn-1")))

	ctx := context.Background()
	_, err := e.RecordTransaction(ctx, draftFor("retail-001", "10"))
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go e.Run(runCtx, upstream.StaticTokenSource("tok"))

	// No transition ever happens, but the record still gets delivered.
	require.Eventually(t, func() bool { return up.PostCount() == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestRun_UnauthenticatedSkipsDelivery(t *testing.T) {
	s := openTestStore(t)
	up := testutil.NewFakeUpstream()
	monitor := connectivity.NewMonitor(false)
	e := New(s, monitor, up,
		WithIDGenerator(testutil.NewFixedIDGenerator("txn-1")))

	ctx := context.Background()
	_, err := e.RecordTransaction(ctx, draftFor("retail-001", "10"))
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go e.Run(runCtx, upstream.StaticTokenSource(""))

	monitor.SetOnline(true)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, up.PostCount(), "no token, nothing may be delivered")
}

func TestRun_PeriodicReconcile(t *testing.T) {
	s := openTestStore(t)
	up := testutil.NewFakeUpstream()
	up.SetUnavailable(true)
	monitor := connectivity.NewMonitor(true)
	e := New(s, monitor, up,
		WithIDGenerator(testutil.NewFixedIDGenerator("txn-1")),
		WithReconcileInterval(20*time.Millisecond))

	ctx := context.Background()
	_, err := e.RecordTransaction(ctx, draftFor("retail-001", "10"))
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go e.Run(runCtx, upstream.StaticTokenSource("tok"))

	// The initial pass fails (upstream down). When the upstream recovers
	// with no connectivity transition at all, the periodic pass picks the
	// record up.
	time.Sleep(30 * time.Millisecond)
	up.SetUnavailable(false)
	require.Eventually(t, func() bool { return up.PostCount() == 1 },
		2*time.Second, 10*time.Millisecond)
}
