package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/billbook/billbook/internal/domain/invoice"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const InvoiceSavedMessage = "Invoice saved successfully"

// PaymentInfo is the bank block printed on an invoice
type PaymentInfo struct {
	BankName    string `json:"bankName"`
	AccountName string `json:"accountName"`
	AccountNo   string `json:"accountNo"`
	IFSCCode    string `json:"ifscCode"`
	Branch      string `json:"branch"`
}

// InvoiceItemRequest is one submitted line. quantity and unitPrice accept
// JSON numbers or numeric strings; absent or null values are rejected.
type InvoiceItemRequest struct {
	Description string           `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   *decimal.Decimal `json:"unitPrice" validate:"required"`
}

// InvoiceData is the invoice form as submitted by the client
type InvoiceData struct {
	// invoiceNo is usually the previewed number; blank means use the allocated one
	InvoiceNo string `json:"invoiceNo"`

	// invoiceDate is YYYY-MM-DD; a full RFC 3339 timestamp is accepted and truncated to its date
	InvoiceDate string `json:"invoiceDate" validate:"required"`

	ClientName    string `json:"clientName"`
	ClientPhone   string `json:"clientPhone"`
	ClientAddress string `json:"clientAddress"`
	ClientGst     string `json:"clientGst"`

	Items []InvoiceItemRequest `json:"items" validate:"dive"`

	// taxRate is a percentage, 18 means 18%; send 0 for untaxed invoices
	TaxRate *decimal.Decimal `json:"taxRate" validate:"required"`

	SellerName  string      `json:"sellerName"`
	RegdAddress string      `json:"regdAddress"`
	OffcAddress string      `json:"offcAddress"`
	PaymentInfo PaymentInfo `json:"paymentInfo"`
}

// SaveInvoiceRequest is the body of POST /invoice/save
type SaveInvoiceRequest struct {
	InvoiceData *InvoiceData `json:"invoiceData" validate:"required"`
}

func (r *SaveInvoiceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToDraft converts the request into a domain draft. The draft still has to
// pass invoice.Draft.Validate before it is saved.
func (r *SaveInvoiceRequest) ToDraft() (*invoice.Draft, error) {
	data := r.InvoiceData

	date, err := ParseInvoiceDate(data.InvoiceDate)
	if err != nil {
		return nil, err
	}

	if data.TaxRate == nil {
		return nil, missingAmount("taxRate")
	}

	items := make([]invoice.DraftItem, 0, len(data.Items))
	for i, item := range data.Items {
		if item.Quantity == nil {
			return nil, missingAmount(fmt.Sprintf("items[%d].quantity", i))
		}
		if item.UnitPrice == nil {
			return nil, missingAmount(fmt.Sprintf("items[%d].unitPrice", i))
		}
		items = append(items, invoice.DraftItem{
			Description: item.Description,
			Quantity:    *item.Quantity,
			UnitPrice:   *item.UnitPrice,
		})
	}

	return &invoice.Draft{
		InvoiceNumber: strings.TrimSpace(data.InvoiceNo),
		InvoiceDate:   date,
		ClientSnapshot: invoice.ClientSnapshot{
			ClientName:    data.ClientName,
			ClientPhone:   data.ClientPhone,
			ClientAddress: data.ClientAddress,
			ClientGST:     data.ClientGst,
		},
		Items:   items,
		TaxRate: *data.TaxRate,
		SellerSnapshot: invoice.SellerSnapshot{
			SellerName:  data.SellerName,
			RegdAddress: data.RegdAddress,
			OffcAddress: data.OffcAddress,
		},
		PaymentInfo: invoice.PaymentInfo{
			BankName:      data.PaymentInfo.BankName,
			AccountName:   data.PaymentInfo.AccountName,
			AccountNumber: data.PaymentInfo.AccountNo,
			IFSCCode:      data.PaymentInfo.IFSCCode,
			Branch:        data.PaymentInfo.Branch,
		},
	}, nil
}

func missingAmount(field string) error {
	return ierr.NewError("missing amount").
		WithHintf("%s is required", field).
		WithReportableDetails(map[string]any{
			field: "is required",
		}).
		Mark(ierr.ErrValidation)
}

// ParseInvoiceDate reads a calendar date and returns it at UTC midnight
func ParseInvoiceDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHint("Invoice date must be in YYYY-MM-DD format").
			WithReportableDetails(map[string]any{
				"invoiceDate": value,
			}).
			Mark(ierr.ErrValidation)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// SaveInvoiceResponse is returned after a committed save
type SaveInvoiceResponse struct {
	Message   string `json:"message"`
	InvoiceID int64  `json:"invoiceId"`
}

// NextInvoiceNumberResponse is the preview of the next number
type NextInvoiceNumberResponse struct {
	InvoiceNo  string `json:"invoiceNo"`
	NextNumber int64  `json:"nextNumber"`
}

// InvoiceSummaryResponse is one row of GET /invoice/all
type InvoiceSummaryResponse struct {
	ID          int64           `json:"id"`
	InvoiceNo   string          `json:"invoice_no"`
	InvoiceDate string          `json:"invoice_date"`
	ClientName  string          `json:"client_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewInvoiceSummaryResponse(s *invoice.Summary) *InvoiceSummaryResponse {
	return &InvoiceSummaryResponse{
		ID:          s.ID,
		InvoiceNo:   s.InvoiceNumber,
		InvoiceDate: s.InvoiceDate.Format(DateLayout),
		ClientName:  s.ClientName,
		TotalAmount: s.TotalAmount,
		CreatedAt:   s.CreatedAt,
	}
}

// InvoiceItemResponse is a stored line item
type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// InvoiceDocument is the reassembled invoice in the shape the form submits,
// plus the stored totals
type InvoiceDocument struct {
	ID            int64                  `json:"id"`
	InvoiceNo     string                 `json:"invoiceNo"`
	SequenceNo    int64                  `json:"sequenceNo"`
	InvoiceDate   string                 `json:"invoiceDate"`
	ClientName    string                 `json:"clientName"`
	ClientPhone   string                 `json:"clientPhone"`
	ClientAddress string                 `json:"clientAddress"`
	ClientGst     string                 `json:"clientGst"`
	Items         []*InvoiceItemResponse `json:"items"`
	TaxRate       decimal.Decimal        `json:"taxRate"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	TaxAmount     decimal.Decimal        `json:"taxAmount"`
	TotalAmount   decimal.Decimal        `json:"totalAmount"`
	SellerName    string                 `json:"sellerName"`
	RegdAddress   string                 `json:"regdAddress"`
	OffcAddress   string                 `json:"offcAddress"`
	PaymentInfo   PaymentInfo            `json:"paymentInfo"`
	CreatedAt     time.Time              `json:"createdAt"`
}

func NewInvoiceDocument(inv *invoice.Invoice) *InvoiceDocument {
	return &InvoiceDocument{
		ID:            inv.ID,
		InvoiceNo:     inv.InvoiceNumber,
		SequenceNo:    inv.Sequence,
		InvoiceDate:   inv.InvoiceDate.Format(DateLayout),
		ClientName:    inv.ClientName,
		ClientPhone:   inv.ClientPhone,
		ClientAddress: inv.ClientAddress,
		ClientGst:     inv.ClientGST,
		Items: lo.Map(inv.LineItems, func(item *invoice.LineItem, _ int) *InvoiceItemResponse {
			return &InvoiceItemResponse{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				LineTotal:   item.LineTotal,
			}
		}),
		TaxRate:     inv.TaxRate,
		Subtotal:    inv.Subtotal,
		TaxAmount:   inv.TaxAmount,
		TotalAmount: inv.TotalAmount,
		SellerName:  inv.SellerName,
		RegdAddress: inv.RegdAddress,
		OffcAddress: inv.OffcAddress,
		PaymentInfo: PaymentInfo{
			BankName:    inv.BankName,
			AccountName: inv.AccountName,
			AccountNo:   inv.AccountNumber,
			IFSCCode:    inv.IFSCCode,
			Branch:      inv.Branch,
		},
		CreatedAt: inv.CreatedAt,
	}
}
