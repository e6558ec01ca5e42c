package testutil

import (
	"context"
	"time"

	"github.com/billbook/billbook/internal/domain/invoice"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository for tests
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]

	// Clock stamps created_at; tests may replace it to control ordering
	Clock func() time.Time

	// FailItemsWith makes Create fail after the header is written,
	// leaving a partial write for the transaction to roll back
	FailItemsWith error
}

var _ invoice.Repository = (*InMemoryInvoiceStore)(nil)

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
		Clock:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *InMemoryInvoiceStore) Create(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Sequence == inv.Sequence {
			return ierr.NewError("duplicate invoice sequence").
				WithHint("Failed to save invoice").
				WithReportableDetails(map[string]any{
					"constraint": "invoices_sequence_no_unique",
				}).
				Mark(ierr.ErrConflict)
		}
	}

	inv.ID = s.nextID()
	inv.CreatedAt = s.Clock()

	header := copyInvoice(inv)
	header.LineItems = nil
	s.items[inv.ID] = header

	if s.FailItemsWith != nil {
		return ierr.WithError(s.FailItemsWith).
			WithHint("Failed to save invoice items").
			Mark(ierr.ErrDatabase)
	}

	for i, item := range inv.LineItems {
		item.ID = int64(i + 1)
		item.InvoiceID = inv.ID
	}

	stored := copyInvoice(inv)
	s.items[inv.ID] = stored
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id int64) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invoice not found").
			WithReportableDetails(map[string]any{
				"invoice_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context) ([]*invoice.Summary, error) {
	invoices := s.InMemoryStore.List(ctx, nil, func(a, b *invoice.Invoice) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Summary {
		return &invoice.Summary{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			InvoiceDate:   inv.InvoiceDate,
			ClientName:    inv.ClientName,
			TotalAmount:   inv.TotalAmount,
			CreatedAt:     inv.CreatedAt,
		}
	}), nil
}

// ItemCount returns the number of stored line items across all invoices
func (s *InMemoryInvoiceStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, inv := range s.items {
		n += len(inv.LineItems)
	}
	return n
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	c := *inv
	c.LineItems = lo.Map(inv.LineItems, func(item *invoice.LineItem, _ int) *invoice.LineItem {
		copied := *item
		return &copied
	})
	return &c
}
