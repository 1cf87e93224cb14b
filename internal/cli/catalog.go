package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tillware/tillsync/internal/cache"
	"github.com/tillware/tillsync/internal/record"
)

// NewCatalogCommand groups catalog operations for a location.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show or update a location's catalog",
	}

	cmd.AddCommand(newCatalogShowCommand(rootOpts))
	cmd.AddCommand(newCatalogSetCommand(rootOpts))

	return cmd
}

func newCatalogShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <location-id>",
		Short: "Show the catalog (live when possible, cached otherwise)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.catalog.LoadCatalog(cmd.Context(), args[0], rootOpts.Token)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load catalog", err)
			}

			formatter := &OutputFormatter{
				Format:  rootOpts.Format,
				Writer:  cmd.OutOrStdout(),
				Verbose: rootOpts.Verbose,
			}
			return formatter.Emit(res, renderCatalog(res.Catalog, res.Source))
		},
	}
}

func newCatalogSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <location-id> <key=json> [key=json ...]",
		Short: "Merge catalog entries into the cached copy",
		Long: "Shallow-merges the given keys into the location's cached catalog.\n" +
			"Values are parsed as JSON; unquoted values are taken as strings.\n" +
			"Keys not mentioned are left untouched.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			partial, err := parseCatalogEntries(args[1:])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid catalog entry", err)
			}

			app, err := newApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.catalog.SaveCatalog(cmd.Context(), args[0], partial); err != nil {
				return WrapExitError(ExitCommandError, "failed to save catalog", err)
			}

			formatter := &OutputFormatter{
				Format:  rootOpts.Format,
				Writer:  cmd.OutOrStdout(),
				Verbose: rootOpts.Verbose,
			}
			return formatter.Emit(
				map[string]any{"locationId": args[0], "updatedKeys": sortedKeys(partial)},
				fmt.Sprintf("Updated %d catalog key(s) for %s\n", len(partial), args[0]))
		},
	}
}

// parseCatalogEntries turns key=value arguments into a partial payload.
// Values are decoded as JSON when they parse; anything else is a bare string.
func parseCatalogEntries(entries []string) (map[string]any, error) {
	partial := make(map[string]any, len(entries))
	for _, e := range entries {
		key, raw, ok := strings.Cut(e, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("entry %q is not key=value", e)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		partial[key] = v
	}
	return partial, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// renderCatalog produces the human-readable catalog view.
func renderCatalog(cat record.Catalog, source cache.Source) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Catalog for %s (%s):\n", cat.LocationID, source)
	if cat.IsEmpty() {
		b.WriteString("  (empty)\n")
		return b.String()
	}
	for _, key := range sortedKeys(cat.Payload) {
		val, err := json.Marshal(cat.Payload[key])
		if err != nil {
			fmt.Fprintf(&b, "  %s: <unprintable>\n", key)
			continue
		}
		fmt.Fprintf(&b, "  %s: %s\n", key, val)
	}
	return b.String()
}
