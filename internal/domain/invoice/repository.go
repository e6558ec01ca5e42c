package invoice

import (
	"context"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// Create inserts the header and then every line item in order.
	// inv.ID and the item IDs are populated on success.
	Create(ctx context.Context, inv *Invoice) error

	// Get retrieves an invoice and its items ordered by item_order
	Get(ctx context.Context, id int64) (*Invoice, error)

	// List returns every invoice summary, newest first
	List(ctx context.Context) ([]*Summary, error)
}

// CounterRepository gives access to the numbering row
type CounterRepository interface {
	// Get reads the counter without locking it
	Get(ctx context.Context) (*Counter, error)

	// GetForUpdate reads the counter and locks it until the surrounding transaction ends
	GetForUpdate(ctx context.Context) (*Counter, error)

	// Increment advances the counter by exactly one and returns the new value
	Increment(ctx context.Context) (int64, error)
}
