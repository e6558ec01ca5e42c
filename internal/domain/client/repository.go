package client

import "context"

type Repository interface {
	// Upsert inserts the client or overwrites phone, address and gst of the
	// row with the same name
	Upsert(ctx context.Context, c *Client) error
	GetByName(ctx context.Context, name string) (*Client, error)
	// Search matches names case-insensitively by substring, ordered by name
	Search(ctx context.Context, query string, limit int) ([]*Client, error)
}
