package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/billbook/billbook/internal/domain/invoice"
	ierr "github.com/billbook/billbook/internal/errors"
)

// InMemoryCounterStore implements invoice.CounterRepository. The row lock of
// GetForUpdate is provided by MockPostgresClient serializing transactions.
type InMemoryCounterStore struct {
	mu      sync.Mutex
	counter *invoice.Counter
}

var _ invoice.CounterRepository = (*InMemoryCounterStore)(nil)

// NewInMemoryCounterStore returns a counter seeded like the initial migration
func NewInMemoryCounterStore() *InMemoryCounterStore {
	s := &InMemoryCounterStore{}
	s.Reset(0, "INV")
	return s
}

// Reset sets the counter row, as if seeded with the given values
func (s *InMemoryCounterStore) Reset(current int64, prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter = &invoice.Counter{CurrentNumber: current, Prefix: prefix, UpdatedAt: time.Now().UTC()}
}

// Remove deletes the counter row
func (s *InMemoryCounterStore) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter = nil
}

func (s *InMemoryCounterStore) Get(_ context.Context) (*invoice.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counter == nil {
		return nil, notInitialized()
	}
	c := *s.counter
	return &c, nil
}

func (s *InMemoryCounterStore) GetForUpdate(ctx context.Context) (*invoice.Counter, error) {
	return s.Get(ctx)
}

func (s *InMemoryCounterStore) Increment(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counter == nil {
		return 0, notInitialized()
	}
	next := *s.counter
	next.CurrentNumber++
	next.UpdatedAt = time.Now().UTC()
	s.counter = &next
	return next.CurrentNumber, nil
}

// Current returns the stored counter value, or -1 when the row is missing
func (s *InMemoryCounterStore) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counter == nil {
		return -1
	}
	return s.counter.CurrentNumber
}

func (s *InMemoryCounterStore) Snapshot() func() {
	s.mu.Lock()
	saved := s.counter
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.counter = saved
	}
}

func notInitialized() error {
	return ierr.NewError("invoice counter row missing").
		WithHint("Invoice counter not initialized").
		Mark(ierr.ErrNotInitialized)
}
