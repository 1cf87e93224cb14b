package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tillware/tillsync/internal/cache"
	"github.com/tillware/tillsync/internal/record"
)

// LocationsOptions holds flags for the locations command.
type LocationsOptions struct {
	Kind       string
	ActiveOnly bool
}

// NewLocationsCommand lists the terminal's known locations, fetching live
// when possible and falling back to the cached then seed sets.
func NewLocationsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LocationsOptions{}

	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List POS locations (live, cached, or seed)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Kind != "" && !record.ValidLocationKinds[record.LocationKind(opts.Kind)] {
				return WrapExitError(ExitCommandError,
					fmt.Sprintf("invalid kind %q", opts.Kind), nil)
			}

			app, err := newApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.locations.LoadLocations(cmd.Context(), rootOpts.Token)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load locations", err)
			}

			locs := res.Locations
			if opts.Kind != "" {
				locs = filterLocationsByKind(locs, record.LocationKind(opts.Kind))
			}
			if opts.ActiveOnly {
				locs = filterActiveLocations(locs)
			}

			formatter := &OutputFormatter{
				Format:  rootOpts.Format,
				Writer:  cmd.OutOrStdout(),
				Verbose: rootOpts.Verbose,
			}
			return formatter.Emit(cache.LocationResult{Locations: locs, Source: res.Source},
				renderLocations(locs, res.Source))
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter by kind (retail|restaurant)")
	cmd.Flags().BoolVar(&opts.ActiveOnly, "active", false, "only show active locations")

	return cmd
}

func filterLocationsByKind(locs []record.Location, kind record.LocationKind) []record.Location {
	out := make([]record.Location, 0, len(locs))
	for _, l := range locs {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	return out
}

func filterActiveLocations(locs []record.Location) []record.Location {
	out := make([]record.Location, 0, len(locs))
	for _, l := range locs {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out
}

// renderLocations produces the human-readable location listing.
func renderLocations(locs []record.Location, source cache.Source) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Locations (%s):\n", source)
	if len(locs) == 0 {
		b.WriteString("  (none)\n")
		return b.String()
	}
	for _, l := range locs {
		status := "inactive"
		if l.IsActive {
			status = "active"
		}
		fmt.Fprintf(&b, "  %-16s %-12s %-8s %s\n", l.ID, l.Kind, status, l.Name)
		if l.Address != "" {
			fmt.Fprintf(&b, "  %-16s %s\n", "", l.Address)
		}
	}
	return b.String()
}
