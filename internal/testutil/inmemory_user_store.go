package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/billbook/billbook/internal/domain/user"
	ierr "github.com/billbook/billbook/internal/errors"
)

// InMemoryUserStore implements user.Repository for tests
type InMemoryUserStore struct {
	*InMemoryStore[*user.User]
}

var _ user.Repository = (*InMemoryUserStore)(nil)

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		InMemoryStore: NewInMemoryStore[*user.User](),
	}
}

func (s *InMemoryUserStore) Create(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if strings.EqualFold(existing.Email, u.Email) {
			return ierr.NewError("duplicate email").
				WithHint("A user with this email already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	u.ID = s.nextID()
	stored := *u
	s.items[u.ID] = &stored
	return nil
}

func (s *InMemoryUserStore) GetActiveByEmail(ctx context.Context, email string) (*user.User, error) {
	email = strings.TrimSpace(email)
	matches := s.InMemoryStore.List(ctx, func(u *user.User) bool {
		return strings.EqualFold(u.Email, email) && u.IsActive()
	}, nil)
	if len(matches) == 0 {
		return nil, ierr.NewError("user not found").
			WithHint("User not found").
			Mark(ierr.ErrNotFound)
	}
	u := *matches[0]
	return &u, nil
}

func (s *InMemoryUserStore) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[id]
	if !ok {
		return ierr.NewError("user not found").
			WithHint("User not found").
			Mark(ierr.ErrNotFound)
	}
	updated := *existing
	updated.Password = passwordHash
	updated.UpdatedAt = time.Now().UTC()
	s.items[id] = &updated
	return nil
}
