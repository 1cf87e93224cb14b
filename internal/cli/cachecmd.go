package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NewCacheCommand groups response cache housekeeping.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the response cache",
	}

	cmd.AddCommand(newCacheSizeCommand(rootOpts))
	cmd.AddCommand(newCacheClearCommand(rootOpts))

	return cmd
}

func newCacheSizeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Report the response cache size in bytes",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			size, err := app.respCache.SizeBytes()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to measure response cache", err)
			}

			formatter := &OutputFormatter{
				Format:  rootOpts.Format,
				Writer:  cmd.OutOrStdout(),
				Verbose: rootOpts.Verbose,
			}
			p := message.NewPrinter(language.English)
			return formatter.Emit(map[string]int64{"sizeBytes": size},
				p.Sprintf("Response cache: %d bytes\n", size))
		},
	}
}

func newCacheClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached responses",
		Long: "Deletes every cached upstream response. The durable store is\n" +
			"not touched: queued transactions and cached locations survive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.respCache.Clear(); err != nil {
				return WrapExitError(ExitCommandError, "failed to clear response cache", err)
			}

			formatter := &OutputFormatter{
				Format:  rootOpts.Format,
				Writer:  cmd.OutOrStdout(),
				Verbose: rootOpts.Verbose,
			}
			return formatter.Emit(map[string]bool{"cleared": true},
				fmt.Sprintln("Response cache cleared."))
		},
	}
}
