package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/billbook/billbook/internal/domain/client"
	ierr "github.com/billbook/billbook/internal/errors"
)

// InMemoryClientStore implements client.Repository for tests
type InMemoryClientStore struct {
	*InMemoryStore[*client.Client]
}

var _ client.Repository = (*InMemoryClientStore)(nil)

func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		InMemoryStore: NewInMemoryStore[*client.Client](),
	}
}

func (s *InMemoryClientStore) Upsert(_ context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range s.items {
		if existing.Name != c.Name {
			continue
		}
		updated := *existing
		updated.Phone = c.Phone
		updated.Address = c.Address
		updated.GST = c.GST
		updated.UpdatedAt = now
		s.items[id] = &updated

		c.ID = updated.ID
		c.CreatedAt = updated.CreatedAt
		c.UpdatedAt = updated.UpdatedAt
		return nil
	}

	c.ID = s.nextID()
	c.CreatedAt = now
	c.UpdatedAt = now
	stored := *c
	s.items[c.ID] = &stored
	return nil
}

func (s *InMemoryClientStore) GetByName(ctx context.Context, name string) (*client.Client, error) {
	matches := s.InMemoryStore.List(ctx, func(c *client.Client) bool {
		return c.Name == name
	}, nil)
	if len(matches) == 0 {
		return nil, ierr.NewError("client not found").
			WithHint("Client not found").
			Mark(ierr.ErrNotFound)
	}
	c := *matches[0]
	return &c, nil
}

func (s *InMemoryClientStore) Search(ctx context.Context, query string, limit int) ([]*client.Client, error) {
	needle := strings.ToLower(query)
	matches := s.InMemoryStore.List(ctx, func(c *client.Client) bool {
		return strings.Contains(strings.ToLower(c.Name), needle)
	}, func(a, b *client.Client) bool {
		return a.Name < b.Name
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	result := make([]*client.Client, 0, len(matches))
	for _, m := range matches {
		c := *m
		result = append(result, &c)
	}
	return result, nil
}
