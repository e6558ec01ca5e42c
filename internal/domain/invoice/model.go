package invoice

import (
	"strings"
	"time"

	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/shopspring/decimal"
)

// ClientSnapshot is the client contact copied onto the invoice at save time.
// Later edits to the clients table do not touch it.
type ClientSnapshot struct {
	ClientName    string `db:"client_name" json:"client_name"`
	ClientPhone   string `db:"client_phone" json:"client_phone"`
	ClientAddress string `db:"client_address" json:"client_address"`
	ClientGST     string `db:"client_gst" json:"client_gst"`
}

// SellerSnapshot is the issuing company as printed on the invoice
type SellerSnapshot struct {
	SellerName  string `db:"seller_name" json:"seller_name"`
	RegdAddress string `db:"regd_address" json:"regd_address"`
	OffcAddress string `db:"offc_address" json:"offc_address"`
}

// PaymentInfo holds the bank instructions printed on the invoice
type PaymentInfo struct {
	BankName      string `db:"payment_bank_name" json:"bank_name"`
	AccountName   string `db:"payment_account_name" json:"account_name"`
	AccountNumber string `db:"payment_account_no" json:"account_number"`
	IFSCCode      string `db:"payment_ifsc_code" json:"ifsc_code"`
	Branch        string `db:"payment_branch" json:"branch"`
}

// Invoice is an immutable invoice header together with its ordered line items
type Invoice struct {
	ID            int64     `db:"id" json:"id"`
	InvoiceNumber string    `db:"invoice_no" json:"invoice_no"`
	Sequence      int64     `db:"sequence_no" json:"sequence_no"`
	InvoiceDate   time.Time `db:"invoice_date" json:"invoice_date"`
	ClientSnapshot
	TaxRate     decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxAmount   decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	SellerSnapshot
	PaymentInfo
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	LineItems []*LineItem `db:"-" json:"line_items"`
}

// LineItem is one priced row of an invoice. LineTotal is stored, never recomputed on read.
type LineItem struct {
	ID          int64           `db:"id" json:"id"`
	InvoiceID   int64           `db:"invoice_id" json:"invoice_id"`
	Description string          `db:"description" json:"description"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal   decimal.Decimal `db:"line_total" json:"line_total"`
	OrderIndex  int             `db:"item_order" json:"item_order"`
}

// Summary is the list projection of an invoice
type Summary struct {
	ID            int64           `db:"id" json:"id"`
	InvoiceNumber string          `db:"invoice_no" json:"invoice_no"`
	InvoiceDate   time.Time       `db:"invoice_date" json:"invoice_date"`
	ClientName    string          `db:"client_name" json:"client_name"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// Totals are the derived amounts of an invoice
type Totals struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// DraftItem is a submitted line before persistence
type DraftItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// LineTotal returns quantity * unit price without rounding
func (i DraftItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Draft is a client-submitted invoice that has not been saved yet
type Draft struct {
	InvoiceNumber string
	InvoiceDate   time.Time
	ClientSnapshot
	Items   []DraftItem
	TaxRate decimal.Decimal
	SellerSnapshot
	PaymentInfo
}

// TrimmedClientName is the key used for the client upsert
func (d *Draft) TrimmedClientName() string {
	return strings.TrimSpace(d.ClientName)
}

// Validate checks the draft before any write happens
func (d *Draft) Validate() error {
	if len(d.Items) == 0 {
		return ierr.NewError("invoice has no items").
			WithHint("At least one line item is required").
			WithReportableDetails(map[string]any{
				"items": "must contain at least one item",
			}).
			Mark(ierr.ErrValidation)
	}

	if d.InvoiceDate.IsZero() {
		return ierr.NewError("invoice date missing").
			WithHint("Invoice date is required").
			WithReportableDetails(map[string]any{
				"invoiceDate": "is required",
			}).
			Mark(ierr.ErrValidation)
	}

	if d.TaxRate.IsNegative() {
		return ierr.NewError("negative tax rate").
			WithHint("Tax rate must not be negative").
			WithReportableDetails(map[string]any{
				"taxRate": d.TaxRate.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	for i, item := range d.Items {
		if !item.Quantity.IsPositive() {
			return ierr.NewErrorf("item %d has non-positive quantity", i+1).
				WithHint("Quantity must be greater than zero").
				WithReportableDetails(map[string]any{
					"item":     i + 1,
					"quantity": item.Quantity.String(),
				}).
				Mark(ierr.ErrValidation)
		}
		if item.UnitPrice.IsNegative() {
			return ierr.NewErrorf("item %d has negative unit price", i+1).
				WithHint("Unit price must not be negative").
				WithReportableDetails(map[string]any{
					"item":      i + 1,
					"unitPrice": item.UnitPrice.String(),
				}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// Totals computes subtotal, tax and total in submission order
func (d *Draft) Totals() Totals {
	return ComputeTotals(d.Items, d.TaxRate)
}

// ComputeTotals sums the lines exactly. Tax is subtotal * rate / 100; the
// division is a decimal shift so no digits are lost.
func ComputeTotals(items []DraftItem, taxRatePercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	tax := subtotal.Mul(taxRatePercent).Shift(-2)

	return Totals{
		Subtotal:    subtotal,
		TaxAmount:   tax,
		TotalAmount: subtotal.Add(tax),
	}
}

// NewInvoice builds the header and lines that a save will persist
func NewInvoice(d *Draft, invoiceNumber string, sequence int64) *Invoice {
	totals := d.Totals()

	client := d.ClientSnapshot
	client.ClientName = d.TrimmedClientName()

	inv := &Invoice{
		InvoiceNumber:  invoiceNumber,
		Sequence:       sequence,
		InvoiceDate:    d.InvoiceDate,
		ClientSnapshot: client,
		TaxRate:        d.TaxRate,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.TaxAmount,
		TotalAmount:    totals.TotalAmount,
		SellerSnapshot: d.SellerSnapshot,
		PaymentInfo:    d.PaymentInfo,
		LineItems:      make([]*LineItem, 0, len(d.Items)),
	}

	for i, item := range d.Items {
		inv.LineItems = append(inv.LineItems, &LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
			OrderIndex:  i + 1,
		})
	}

	return inv
}
