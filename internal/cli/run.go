package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tillware/tillsync/internal/upstream"
)

// NewRunCommand starts the long-running terminal daemon: a connectivity
// watcher feeding the monitor and the sync trigger loop reconciling on
// online edges and the periodic timer. Stops on SIGINT/SIGTERM.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the terminal daemon (watch connectivity, sync continuously)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			go app.monitor.Watch(ctx, app.probe, app.cfg.ProbeInterval.Std())

			slog.Info("terminal daemon started",
				"db", app.cfg.DBPath,
				"upstream", app.cfg.UpstreamURL,
				"online", app.monitor.IsOnline())

			tokens := upstream.StaticTokenSource(rootOpts.Token)
			if err := app.engine.Run(ctx, tokens); err != nil && !errors.Is(err, context.Canceled) {
				return WrapExitError(ExitCommandError, "sync loop failed", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Shutting down.")
			return nil
		},
	}
}
