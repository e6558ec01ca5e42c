package postgres

import (
	"context"
	"database/sql"

	"github.com/billbook/billbook/internal/domain/invoice"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/postgres"
	"github.com/cockroachdb/errors"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			invoice_no, sequence_no, invoice_date,
			client_name, client_phone, client_address, client_gst,
			tax_rate, subtotal, tax_amount, total_amount,
			seller_name, regd_address, offc_address,
			payment_bank_name, payment_account_name, payment_account_no, payment_ifsc_code, payment_branch
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17, $18, $19
		)
		RETURNING id, created_at`

	r.logger.Debugw("creating invoice",
		"invoice_no", inv.InvoiceNumber,
		"sequence_no", inv.Sequence,
		"items", len(inv.LineItems),
	)

	q := r.db.GetQuerier(ctx)
	err := q.QueryRowxContext(ctx, query,
		inv.InvoiceNumber, inv.Sequence, inv.InvoiceDate,
		inv.ClientName, inv.ClientPhone, inv.ClientAddress, inv.ClientGST,
		inv.TaxRate, inv.Subtotal, inv.TaxAmount, inv.TotalAmount,
		inv.SellerName, inv.RegdAddress, inv.OffcAddress,
		inv.BankName, inv.AccountName, inv.AccountNumber, inv.IFSCCode, inv.Branch,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return ierr.FromStorage(err, "Failed to save invoice")
	}

	itemQuery := `
		INSERT INTO invoice_items (
			invoice_id, description, quantity, unit_price, line_total, item_order
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	for _, item := range inv.LineItems {
		item.InvoiceID = inv.ID
		err := q.QueryRowxContext(ctx, itemQuery,
			item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.LineTotal, item.OrderIndex,
		).Scan(&item.ID)
		if err != nil {
			return ierr.FromStorage(err, "Failed to save invoice items")
		}
	}

	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id int64) (*invoice.Invoice, error) {
	query := `
		SELECT
			id, invoice_no, sequence_no, invoice_date,
			client_name, client_phone, client_address, client_gst,
			tax_rate, subtotal, tax_amount, total_amount,
			seller_name, regd_address, offc_address,
			payment_bank_name, payment_account_name, payment_account_no, payment_ifsc_code, payment_branch,
			created_at
		FROM invoices
		WHERE id = $1`

	q := r.db.GetQuerier(ctx)

	var inv invoice.Invoice
	if err := q.GetContext(ctx, &inv, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Invoice not found").
				WithReportableDetails(map[string]any{
					"invoice_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.FromStorage(err, "Failed to fetch invoice")
	}

	itemQuery := `
		SELECT id, invoice_id, description, quantity, unit_price, line_total, item_order
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY item_order ASC`

	items := make([]*invoice.LineItem, 0)
	if err := q.SelectContext(ctx, &items, itemQuery, id); err != nil {
		return nil, ierr.FromStorage(err, "Failed to fetch invoice items")
	}
	inv.LineItems = items

	return &inv, nil
}

func (r *invoiceRepository) List(ctx context.Context) ([]*invoice.Summary, error) {
	query := `
		SELECT id, invoice_no, invoice_date, client_name, total_amount, created_at
		FROM invoices
		ORDER BY created_at DESC, id DESC`

	summaries := make([]*invoice.Summary, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &summaries, query); err != nil {
		return nil, ierr.FromStorage(err, "Failed to list invoices")
	}
	return summaries, nil
}
