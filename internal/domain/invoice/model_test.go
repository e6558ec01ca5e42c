package invoice

import (
	"testing"
	"time"

	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFormatInvoiceNumber(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		sequence int64
		width    int
		want     string
	}{
		{"first", "INV", 1, 5, "INV-00001"},
		{"wider than padding", "INV", 123456, 5, "INV-123456"},
		{"custom prefix", "BB", 42, 5, "BB-00042"},
		{"custom width", "INV", 7, 3, "INV-007"},
		{"zero width falls back", "INV", 7, 0, "INV-00007"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatInvoiceNumber(tt.prefix, tt.sequence, tt.width))
		})
	}
}

func TestCounter(t *testing.T) {
	c := &Counter{CurrentNumber: 9}
	assert.Equal(t, int64(10), c.Next())
	assert.Equal(t, "INV", c.PrefixOr("INV"))

	c.Prefix = "BB"
	assert.Equal(t, "BB", c.PrefixOr("INV"))
}

func TestComputeTotals(t *testing.T) {
	items := []DraftItem{
		{Description: "Widget", Quantity: d("2"), UnitPrice: d("100")},
		{Description: "Gadget", Quantity: d("1"), UnitPrice: d("50")},
	}

	totals := ComputeTotals(items, d("18"))
	assert.True(t, totals.Subtotal.Equal(d("250")))
	assert.True(t, totals.TaxAmount.Equal(d("45")))
	assert.True(t, totals.TotalAmount.Equal(d("295")))

	zero := ComputeTotals(items, decimal.Zero)
	assert.True(t, zero.TaxAmount.IsZero())
	assert.True(t, zero.TotalAmount.Equal(d("250")))

	// fractional quantities and rates keep every digit
	exact := ComputeTotals([]DraftItem{{Quantity: d("0.333"), UnitPrice: d("3")}}, d("12.5"))
	assert.Equal(t, "0.999", exact.Subtotal.String())
	assert.Equal(t, "0.124875", exact.TaxAmount.String())
	assert.Equal(t, "1.123875", exact.TotalAmount.String())
}

func validDraft() *Draft {
	return &Draft{
		InvoiceDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		ClientSnapshot: ClientSnapshot{
			ClientName: "  Acme Corp  ",
		},
		Items: []DraftItem{
			{Description: "Widget", Quantity: d("2"), UnitPrice: d("100")},
		},
		TaxRate: d("18"),
	}
}

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr bool
	}{
		{"valid", func(*Draft) {}, false},
		{"no items", func(d *Draft) { d.Items = nil }, true},
		{"zero date", func(d *Draft) { d.InvoiceDate = time.Time{} }, true},
		{"negative tax", func(dr *Draft) { dr.TaxRate = d("-1") }, true},
		{"zero quantity", func(dr *Draft) { dr.Items[0].Quantity = decimal.Zero }, true},
		{"negative price", func(dr *Draft) { dr.Items[0].UnitPrice = d("-0.01") }, true},
		{"free item", func(dr *Draft) { dr.Items[0].UnitPrice = decimal.Zero }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft)

			err := draft.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewInvoice(t *testing.T) {
	draft := validDraft()
	draft.Items = append(draft.Items, DraftItem{Description: "Gadget", Quantity: d("1"), UnitPrice: d("50")})

	inv := NewInvoice(draft, "INV-00003", 3)

	assert.Equal(t, "INV-00003", inv.InvoiceNumber)
	assert.Equal(t, int64(3), inv.Sequence)
	assert.Equal(t, "Acme Corp", inv.ClientName)
	assert.True(t, inv.TotalAmount.Equal(d("295")))
	require.Len(t, inv.LineItems, 2)
	assert.Equal(t, 1, inv.LineItems[0].OrderIndex)
	assert.Equal(t, 2, inv.LineItems[1].OrderIndex)
	assert.True(t, inv.LineItems[0].LineTotal.Equal(d("200")))
}
