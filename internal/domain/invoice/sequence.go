package invoice

import (
	"fmt"
	"time"
)

// DefaultNumberPadding is the zero-padded width of the sequence in an invoice number
const DefaultNumberPadding = 5

// Counter is the singleton invoice numbering row.
// CurrentNumber only moves forward, by one, inside a committed save.
type Counter struct {
	CurrentNumber int64     `db:"current_invoice_no"`
	Prefix        string    `db:"prefix"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Next is the sequence the next committed save will take
func (c *Counter) Next() int64 {
	return c.CurrentNumber + 1
}

// PrefixOr returns the stored prefix, or fallback when it is blank
func (c *Counter) PrefixOr(fallback string) string {
	if c.Prefix == "" {
		return fallback
	}
	return c.Prefix
}

// FormatInvoiceNumber renders "{prefix}-{sequence}" with the sequence zero-padded to width
func FormatInvoiceNumber(prefix string, sequence int64, width int) string {
	if width <= 0 {
		width = DefaultNumberPadding
	}
	return fmt.Sprintf("%s-%0*d", prefix, width, sequence)
}
