package testutil

import (
	"context"
	"sync"

	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/postgres"
	"github.com/billbook/billbook/internal/types"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

type mockTxKey struct{}

// MockPostgresClient emulates transactions over the in-memory stores.
// Transactions run one at a time, which stands in for the counter row lock,
// and a failed transaction restores every participating store.
type MockPostgresClient struct {
	mu           sync.Mutex
	logger       *logger.Logger
	participants []Snapshotter
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger, participants ...Snapshotter) *MockPostgresClient {
	return &MockPostgresClient{
		logger:       logger,
		participants: participants,
	}
}

// WithTx executes the given function within a transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) (err error) {
	// nested calls join the outer transaction
	if InMockTx(ctx) {
		return fn(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	restores := make([]func(), 0, len(c.participants))
	for _, p := range c.participants {
		restores = append(restores, p.Snapshot())
	}
	rollback := func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}

	txID := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION)
	txCtx := context.WithValue(ctx, mockTxKey{}, txID)

	defer func() {
		if r := recover(); r != nil {
			rollback()
			panic(r)
		}
	}()

	if err = fn(txCtx); err != nil {
		c.logger.Debugw("rolling back mock transaction", "tx_id", txID, "error", err)
		rollback()
		return err
	}
	return nil
}

// InMockTx reports whether ctx is inside a MockPostgresClient transaction
func InMockTx(ctx context.Context) bool {
	_, ok := ctx.Value(mockTxKey{}).(string)
	return ok
}
