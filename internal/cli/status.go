package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// statusResult is the JSON payload for the status command.
type statusResult struct {
	Online         bool   `json:"online"`
	Authenticated  bool   `json:"authenticated"`
	UpstreamURL    string `json:"upstreamUrl"`
	DBPath         string `json:"dbPath"`
	Locations      int    `json:"locations"`
	UnsyncedCount  int    `json:"unsyncedCount"`
	CacheSizeBytes int64  `json:"cacheSizeBytes"`
}

// NewStatusCommand reports connectivity, queue depth, and cache usage.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show terminal status (connectivity, queue, cache)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			locs, err := app.store.ListLocations(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read locations", err)
			}
			pending, err := app.store.ListUnsyncedTransactions(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read unsynced queue", err)
			}
			cacheSize, err := app.respCache.SizeBytes()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to measure response cache", err)
			}

			res := statusResult{
				Online:         app.monitor.IsOnline(),
				Authenticated:  rootOpts.Token != "",
				UpstreamURL:    app.client.BaseURL(),
				DBPath:         app.cfg.DBPath,
				Locations:      len(locs),
				UnsyncedCount:  len(pending),
				CacheSizeBytes: cacheSize,
			}

			formatter := &OutputFormatter{
				Format:  rootOpts.Format,
				Writer:  cmd.OutOrStdout(),
				Verbose: rootOpts.Verbose,
			}
			return formatter.Emit(res, renderStatus(res))
		},
	}
}

// renderStatus produces the human-readable status report.
func renderStatus(res statusResult) string {
	p := message.NewPrinter(language.English)

	var b strings.Builder
	b.WriteString("Terminal status:\n")
	p.Fprintf(&b, "  Connectivity:   %s\n", onlineLabel(res.Online))
	p.Fprintf(&b, "  Authenticated:  %v\n", res.Authenticated)
	p.Fprintf(&b, "  Upstream:       %s\n", res.UpstreamURL)
	p.Fprintf(&b, "  Database:       %s\n", res.DBPath)
	p.Fprintf(&b, "  Locations:      %d\n", res.Locations)
	p.Fprintf(&b, "  Unsynced queue: %d transaction(s)\n", res.UnsyncedCount)
	p.Fprintf(&b, "  Response cache: %d bytes\n", res.CacheSizeBytes)
	return b.String()
}

func onlineLabel(online bool) string {
	if online {
		return "online"
	}
	return "offline"
}
