package testutil

import (
	"context"
	"time"

	"github.com/billbook/billbook/internal/cache"
	"github.com/billbook/billbook/internal/config"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/types"
	"github.com/billbook/billbook/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds the in-memory repositories used by service tests
type Stores struct {
	InvoiceRepo  *InMemoryInvoiceStore
	CounterRepo  *InMemoryCounterStore
	ClientRepo   *InMemoryClientStore
	SettingsRepo *InMemorySettingsStore
	UserRepo     *InMemoryUserStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     *MockPostgresClient
	cache  *cache.InMemoryCache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelError
	cfg.Auth.Secret = "test-secret"
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		InvoiceRepo:  NewInMemoryInvoiceStore(),
		CounterRepo:  NewInMemoryCounterStore(),
		ClientRepo:   NewInMemoryClientStore(),
		SettingsRepo: NewInMemorySettingsStore(),
		UserRepo:     NewInMemoryUserStore(),
	}

	s.db = NewMockPostgresClient(s.logger,
		s.stores.InvoiceRepo,
		s.stores.CounterRepo,
		s.stores.ClientRepo,
		s.stores.UserRepo,
	)
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.InvoiceRepo.Clear()
	s.stores.ClientRepo.Clear()
	s.stores.SettingsRepo.Clear()
	s.stores.UserRepo.Clear()
	s.stores.CounterRepo.Reset(0, "INV")
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() *cache.InMemoryCache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}
