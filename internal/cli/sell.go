package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tillware/tillsync/internal/record"
	"github.com/tillware/tillsync/internal/syncer"
)

// SellOptions holds flags for the sell command.
type SellOptions struct {
	Location string
	Kind     string
	Table    string
	Items    []string // "itemID:unitPrice:qty[:notes]"
	Total    string   // claimed total; empty means "trust the line items"
}

// sellResult is the JSON payload for a recorded sale.
type sellResult struct {
	Transaction record.Transaction `json:"transaction"`
	Delivered   bool               `json:"delivered"`
}

// NewSellCommand records a sale locally and attempts immediate delivery.
// Offline or failed delivery is still a successful sale: the record stays
// queued and the user is told it will sync later.
func NewSellCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SellOptions{}

	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Record a sale (works offline)",
		Example: `  tillsync sell --location retail-001 --kind retail_sale \
      --item "sku-42:19.99:2" --item "sku-7:4.50:1"
  tillsync sell --location restaurant-001 --kind restaurant_order \
      --table T4 --item "menu-3:12.00:1:no onions"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := buildDraft(opts)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid sale", err)
			}

			app, err := newApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			formatter := &OutputFormatter{
				Format:  rootOpts.Format,
				Writer:  cmd.OutOrStdout(),
				Verbose: rootOpts.Verbose,
			}

			tx, err := app.engine.RecordTransaction(cmd.Context(), draft)
			if err != nil {
				code := "store_error"
				switch {
				case syncer.IsTotalMismatch(err):
					code = "invalid_total"
				case errors.Is(err, syncer.ErrNoLineItems):
					code = "empty_sale"
				}
				if emitErr := formatter.EmitError(code, err.Error()); emitErr != nil {
					return emitErr
				}
				return WrapExitError(ExitFailure, "sale rejected", err)
			}

			delivered, err := app.engine.AttemptImmediateSync(cmd.Context(), tx, rootOpts.Token)
			if err != nil {
				// Delivered upstream but the local flag didn't commit;
				// the next reconcile will redeliver and dedup.
				return WrapExitError(ExitCommandError, "failed to mark transaction synced", err)
			}

			return formatter.Emit(sellResult{Transaction: tx, Delivered: delivered},
				renderSale(tx, delivered))
		},
	}

	cmd.Flags().StringVar(&opts.Location, "location", "", "location ID (required)")
	cmd.Flags().StringVar(&opts.Kind, "kind", string(record.KindRetailSale),
		"transaction kind (retail_sale|restaurant_order)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table reference (restaurant orders)")
	cmd.Flags().StringArrayVar(&opts.Items, "item", nil,
		"line item as itemID:unitPrice:qty[:notes] (repeatable)")
	cmd.Flags().StringVar(&opts.Total, "total", "",
		"claimed total; must match the line item sum when given")
	cmd.MarkFlagRequired("location")
	cmd.MarkFlagRequired("item")

	return cmd
}

// buildDraft validates flags into an engine draft. When no total is claimed
// the line item sum is used, which always passes the engine's check.
func buildDraft(opts *SellOptions) (syncer.Draft, error) {
	kind := record.TransactionKind(opts.Kind)
	if kind != record.KindRetailSale && kind != record.KindRestaurantOrder {
		return syncer.Draft{}, fmt.Errorf("invalid kind %q", opts.Kind)
	}

	items := make([]record.LineItem, 0, len(opts.Items))
	for _, raw := range opts.Items {
		li, err := parseLineItem(raw)
		if err != nil {
			return syncer.Draft{}, err
		}
		items = append(items, li)
	}

	draft := syncer.Draft{
		LocationID: opts.Location,
		Kind:       kind,
		LineItems:  items,
		TableRef:   opts.Table,
	}

	if opts.Total != "" {
		total, err := decimal.NewFromString(opts.Total)
		if err != nil {
			return syncer.Draft{}, fmt.Errorf("invalid total %q: %w", opts.Total, err)
		}
		draft.Total = total
	} else {
		for _, li := range items {
			draft.Total = draft.Total.Add(li.Subtotal())
		}
	}

	return draft, nil
}

// parseLineItem parses "itemID:unitPrice:qty" with an optional trailing
// ":notes" segment that may itself contain colons.
func parseLineItem(raw string) (record.LineItem, error) {
	parts := strings.SplitN(raw, ":", 4)
	if len(parts) < 3 {
		return record.LineItem{}, fmt.Errorf("line item %q is not itemID:unitPrice:qty", raw)
	}

	price, err := decimal.NewFromString(parts[1])
	if err != nil {
		return record.LineItem{}, fmt.Errorf("line item %q: invalid price: %w", raw, err)
	}

	qty, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || qty <= 0 {
		return record.LineItem{}, fmt.Errorf("line item %q: invalid quantity", raw)
	}

	li := record.LineItem{ItemID: parts[0], UnitPrice: price, Quantity: qty}
	if len(parts) == 4 {
		li.Notes = parts[3]
	}
	return li, nil
}

// renderSale produces the human-readable sale confirmation.
func renderSale(tx record.Transaction, delivered bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sale recorded: %s\n", tx.ID)
	for _, li := range tx.LineItems {
		fmt.Fprintf(&b, "  %-16s $%s x %d = $%s\n",
			li.ItemID, li.UnitPrice.StringFixed(2), li.Quantity, li.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "  Total: $%s\n", tx.Total.StringFixed(2))
	if tx.TableRef != "" {
		fmt.Fprintf(&b, "  Table: %s\n", tx.TableRef)
	}
	if delivered {
		b.WriteString("Delivered to backend.\n")
	} else {
		b.WriteString("Saved offline, will sync later.\n")
	}
	return b.String()
}
