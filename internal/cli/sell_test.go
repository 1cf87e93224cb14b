package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillware/tillsync/internal/record"
)

func TestParseLineItem(t *testing.T) {
	li, err := parseLineItem("sku-42:19.99:2")
	require.NoError(t, err)
	assert.Equal(t, "sku-42", li.ItemID)
	assert.True(t, li.UnitPrice.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(2), li.Quantity)
	assert.Empty(t, li.Notes)
}

func TestParseLineItemWithNotes(t *testing.T) {
	li, err := parseLineItem("menu-3:12.00:1:no onions, extra sauce: on side")
	require.NoError(t, err)
	assert.Equal(t, "menu-3", li.ItemID)
	// Everything after the third colon is notes, colons included.
	assert.Equal(t, "no onions, extra sauce: on side", li.Notes)
}

func TestParseLineItemInvalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing fields", "sku-42:19.99"},
		{"bad price", "sku-42:abc:1"},
		{"bad quantity", "sku-42:19.99:x"},
		{"zero quantity", "sku-42:19.99:0"},
		{"negative quantity", "sku-42:19.99:-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseLineItem(tc.raw)
			assert.Error(t, err)
		})
	}
}

func TestBuildDraftComputesTotalWhenUnclaimed(t *testing.T) {
	draft, err := buildDraft(&SellOptions{
		Location: "retail-001",
		Kind:     string(record.KindRetailSale),
		Items:    []string{"sku-42:19.99:2", "sku-7:4.50:1"},
	})
	require.NoError(t, err)
	assert.True(t, draft.Total.Equal(decimal.RequireFromString("44.48")),
		"total %s", draft.Total)
}

func TestBuildDraftClaimedTotal(t *testing.T) {
	draft, err := buildDraft(&SellOptions{
		Location: "retail-001",
		Kind:     string(record.KindRetailSale),
		Items:    []string{"sku-42:19.99:1"},
		Total:    "19.99",
	})
	require.NoError(t, err)
	assert.True(t, draft.Total.Equal(decimal.RequireFromString("19.99")))
}

func TestBuildDraftRejectsBadKind(t *testing.T) {
	_, err := buildDraft(&SellOptions{
		Location: "retail-001",
		Kind:     "wholesale",
		Items:    []string{"sku-42:19.99:1"},
	})
	assert.Error(t, err)
}

func TestBuildDraftCarriesTableRef(t *testing.T) {
	draft, err := buildDraft(&SellOptions{
		Location: "restaurant-001",
		Kind:     string(record.KindRestaurantOrder),
		Table:    "T4",
		Items:    []string{"menu-3:12.00:1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "T4", draft.TableRef)
	assert.Equal(t, record.KindRestaurantOrder, draft.Kind)
}
