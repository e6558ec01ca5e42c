package testutil

import (
	"context"
	"sync"

	"github.com/billbook/billbook/internal/domain/settings"
	ierr "github.com/billbook/billbook/internal/errors"
)

// InMemorySettingsStore implements settings.Repository for tests
type InMemorySettingsStore struct {
	mu       sync.RWMutex
	settings *settings.CompanySettings

	// Reads counts Get calls so cache behaviour can be asserted
	Reads int
}

var _ settings.Repository = (*InMemorySettingsStore)(nil)

func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{}
}

func (s *InMemorySettingsStore) Get(_ context.Context) (*settings.CompanySettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Reads++
	if s.settings == nil {
		return nil, ierr.NewError("company settings row missing").
			WithHint("Company settings not found").
			Mark(ierr.ErrNotFound)
	}
	c := *s.settings
	return &c, nil
}

func (s *InMemorySettingsStore) Upsert(_ context.Context, cs *settings.CompanySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *cs
	s.settings = &c
	return nil
}

func (s *InMemorySettingsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = nil
	s.Reads = 0
}
