package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/tillware/tillsync/internal/cache"
	"github.com/tillware/tillsync/internal/config"
	"github.com/tillware/tillsync/internal/connectivity"
	"github.com/tillware/tillsync/internal/respcache"
	"github.com/tillware/tillsync/internal/store"
	"github.com/tillware/tillsync/internal/syncer"
	"github.com/tillware/tillsync/internal/upstream"
)

// app wires the terminal core together for one CLI invocation: one store,
// one monitor, one upstream client, shared by every component. This is the
// single-construction-per-process lifecycle - nothing here is a package
// singleton.
type app struct {
	cfg       config.Config
	store     *store.Store
	monitor   *connectivity.Monitor
	probe     connectivity.Probe
	respCache *respcache.Cache
	client    *upstream.Client
	locations *cache.LocationCache
	catalog   *cache.CatalogCache
	engine    *syncer.Engine
}

// newApp loads config, opens the store, seeds the connectivity monitor from
// an initial probe, and constructs every component.
func newApp(ctx context.Context, opts *RootOptions) (*app, error) {
	configureLogging(opts)

	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}
	if opts.DB != "" {
		cfg.DBPath = opts.DB
	}
	if opts.URL != "" {
		cfg.UpstreamURL = opts.URL
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open terminal store", err)
	}

	rc, err := respcache.New(cfg.ResponseCacheDir)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open response cache", err)
	}

	client := upstream.New(cfg.UpstreamURL, upstream.WithResponseCache(rc))

	probe := connectivity.HTTPProbe{URL: cfg.UpstreamURL}
	monitor := connectivity.NewMonitor(probe.Online(ctx))

	a := &app{
		cfg:       cfg,
		store:     st,
		monitor:   monitor,
		probe:     probe,
		respCache: rc,
		client:    client,
		locations: cache.NewLocationCache(st, monitor, client),
		catalog:   cache.NewCatalogCache(st, monitor, client),
		engine: syncer.New(st, monitor, client,
			syncer.WithReconcileInterval(cfg.ReconcileInterval.Std())),
	}
	return a, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	a.store.Close()
}

func configureLogging(opts *RootOptions) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
