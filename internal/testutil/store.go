package testutil

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/billbook/billbook/internal/errors"
)

// FilterFunc is a generic filter function type
type FilterFunc[T any] func(item T) bool

// SortFunc is a generic sort function type
type SortFunc[T any] func(i, j T) bool

// Snapshotter is implemented by stores that take part in mock transactions.
// Snapshot captures the current state and returns a func that restores it.
type Snapshotter interface {
	Snapshot() (restore func())
}

// InMemoryStore implements a generic in-memory store keyed by serial ids.
// Items are replaced, never mutated in place, so a shallow copy of the map
// is a consistent snapshot.
type InMemoryStore[T any] struct {
	mu     sync.RWMutex
	items  map[int64]T
	lastID int64
}

// NewInMemoryStore creates a new InMemoryStore
func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[int64]T),
	}
}

// nextID behaves like a BIGSERIAL; callers must hold mu
func (s *InMemoryStore[T]) nextID() int64 {
	s.lastID++
	return s.lastID
}

// Get retrieves an item by ID
func (s *InMemoryStore[T]) Get(_ context.Context, id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, exists := s.items[id]; exists {
		return item, nil
	}

	var zero T
	return zero, ierr.NewError("item not found").
		WithHint("Item not found").
		Mark(ierr.ErrNotFound)
}

// List returns the items accepted by filterFn, ordered by sortFn
func (s *InMemoryStore[T]) List(_ context.Context, filterFn FilterFunc[T], sortFn SortFunc[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if filterFn == nil || filterFn(item) {
			result = append(result, item)
		}
	}

	if sortFn != nil {
		sort.Slice(result, func(i, j int) bool {
			return sortFn(result[i], result[j])
		})
	}
	return result
}

// Count returns the number of stored items
func (s *InMemoryStore[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Snapshot copies the id map and serial so a failed mock transaction can be undone.
// Like postgres sequences, the serial is restored too; ids are never compared across rollbacks.
func (s *InMemoryStore[T]) Snapshot() func() {
	s.mu.RLock()
	items := make(map[int64]T, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	lastID := s.lastID
	s.mu.RUnlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.items = items
		s.lastID = lastID
	}
}

// Clear removes all items from the store
func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[int64]T)
	s.lastID = 0
}
