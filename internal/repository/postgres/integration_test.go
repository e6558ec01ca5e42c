//go:build integration

// Run against a disposable database:
//
//	BILLBOOK_TEST_POSTGRES_DBNAME=billbook_test go test -tags integration ./internal/repository/postgres/...
//
// Every test truncates the invoice tables.
package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/billbook/billbook/internal/api/dto"
	"github.com/billbook/billbook/internal/auth"
	"github.com/billbook/billbook/internal/cache"
	"github.com/billbook/billbook/internal/config"
	"github.com/billbook/billbook/internal/domain/client"
	"github.com/billbook/billbook/internal/domain/invoice"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/logger"
	pg "github.com/billbook/billbook/internal/postgres"
	repo "github.com/billbook/billbook/internal/repository/postgres"
	"github.com/billbook/billbook/internal/service"
	"github.com/billbook/billbook/internal/types"
	"github.com/billbook/billbook/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/suite"
)

type PostgresRepositorySuite struct {
	suite.Suite
	ctx      context.Context
	cfg      *config.Configuration
	logger   *logger.Logger
	db       *pg.DB
	invoices invoice.Repository
	counter  invoice.CounterRepository
	clients  client.Repository
}

func TestPostgresRepositories(t *testing.T) {
	suite.Run(t, new(PostgresRepositorySuite))
}

func testConfig() *config.Configuration {
	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelError
	cfg.Auth.Secret = "integration-secret"
	cfg.Postgres.ConnectRetries = 1
	cfg.Postgres.DBName = "billbook_test"

	if v := os.Getenv("BILLBOOK_TEST_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("BILLBOOK_TEST_POSTGRES_DBNAME"); v != "" {
		cfg.Postgres.DBName = v
	}
	if v := os.Getenv("BILLBOOK_TEST_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("BILLBOOK_TEST_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	return cfg
}

func (s *PostgresRepositorySuite) SetupSuite() {
	validator.NewValidator()
	s.ctx = context.Background()
	s.cfg = testConfig()

	var err error
	s.logger, err = logger.NewLogger(s.cfg)
	s.Require().NoError(err)

	// the migrator owns and closes its own pool
	migrationDB, err := pg.NewDB(s.cfg, s.logger)
	if err != nil {
		s.T().Skipf("postgres not reachable: %v", err)
	}
	migrator, err := pg.NewMigrator(migrationDB)
	s.Require().NoError(err)
	s.Require().NoError(migrator.Up())
	s.Require().NoError(migrator.Close())

	s.db, err = pg.NewDB(s.cfg, s.logger)
	s.Require().NoError(err)

	s.invoices = repo.NewInvoiceRepository(s.db, s.logger)
	s.counter = repo.NewCounterRepository(s.db, s.logger)
	s.clients = repo.NewClientRepository(s.db, s.logger)
}

func (s *PostgresRepositorySuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *PostgresRepositorySuite) SetupTest() {
	s.exec(`TRUNCATE invoice_items, invoices, clients RESTART IDENTITY`)
	s.exec(`
		INSERT INTO invoice_counter (id, current_invoice_no, prefix)
		VALUES (1, 0, 'INV')
		ON CONFLICT (id) DO UPDATE SET current_invoice_no = 0, prefix = 'INV'`)
}

func (s *PostgresRepositorySuite) exec(query string) {
	_, err := s.db.ExecContext(s.ctx, query)
	s.Require().NoError(err)
}

func (s *PostgresRepositorySuite) count(table string) int {
	var n int
	s.Require().NoError(s.db.GetContext(s.ctx, &n, "SELECT COUNT(*) FROM "+table))
	return n
}

func (s *PostgresRepositorySuite) invoiceService() service.InvoiceService {
	params := service.NewServiceParams(
		s.logger,
		s.cfg,
		s.db,
		cache.NewInMemoryCache(s.cfg, s.logger),
		auth.NewProvider(s.cfg),
		s.invoices,
		s.counter,
		s.clients,
		repo.NewSettingsRepository(s.db, s.logger),
		repo.NewUserRepository(s.db, s.logger),
	)
	return service.NewInvoiceService(params)
}

func saveRequest(clientName string) dto.SaveInvoiceRequest {
	return dto.SaveInvoiceRequest{
		InvoiceData: &dto.InvoiceData{
			InvoiceDate: "2024-03-15",
			ClientName:  clientName,
			TaxRate:     lo.ToPtr(decimal.NewFromInt(18)),
			Items: []dto.InvoiceItemRequest{
				{Description: "Widget", Quantity: lo.ToPtr(decimal.NewFromInt(2)), UnitPrice: lo.ToPtr(decimal.NewFromInt(100))},
				{Description: "Gadget", Quantity: lo.ToPtr(decimal.NewFromInt(1)), UnitPrice: lo.ToPtr(decimal.NewFromInt(50))},
			},
		},
	}
}

func (s *PostgresRepositorySuite) TestConcurrentSavesAreGapFree() {
	const saves = 20
	svc := s.invoiceService()

	var wg conc.WaitGroup
	for i := 0; i < saves; i++ {
		wg.Go(func() {
			_, err := svc.SaveInvoice(s.ctx, saveRequest("Acme Corp"))
			s.NoError(err)
		})
	}
	wg.Wait()

	var sequences []int64
	s.Require().NoError(s.db.SelectContext(s.ctx, &sequences,
		"SELECT sequence_no FROM invoices ORDER BY sequence_no"))
	s.Require().Len(sequences, saves)
	for i, seq := range sequences {
		s.Equal(int64(i+1), seq)
	}

	counter, err := s.counter.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(saves), counter.CurrentNumber)
	s.Equal(saves*2, s.count("invoice_items"))
	s.Equal(1, s.count("clients"))
}

func (s *PostgresRepositorySuite) TestCounterLockHoldsUntilCommit() {
	locked := make(chan struct{})
	seen := make(chan int64, 1)

	var wg conc.WaitGroup
	wg.Go(func() {
		err := s.db.WithTx(s.ctx, func(ctx context.Context) error {
			if _, err := s.counter.GetForUpdate(ctx); err != nil {
				return err
			}
			close(locked)
			time.Sleep(300 * time.Millisecond)
			_, err := s.counter.Increment(ctx)
			return err
		})
		s.NoError(err)
	})
	wg.Go(func() {
		<-locked
		err := s.db.WithTx(s.ctx, func(ctx context.Context) error {
			c, err := s.counter.GetForUpdate(ctx)
			if err != nil {
				return err
			}
			seen <- c.CurrentNumber
			return nil
		})
		s.NoError(err)
	})
	wg.Wait()

	// the second reader waited for the first commit
	s.Equal(int64(1), <-seen)
}

func (s *PostgresRepositorySuite) TestFailedItemInsertRollsBackEverything() {
	inv := invoice.NewInvoice(&invoice.Draft{
		InvoiceDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Items: []invoice.DraftItem{
			{Description: "Widget", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
			// violates the quantity > 0 check
			{Description: "Broken", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(10)},
		},
		TaxRate: decimal.Zero,
	}, "INV-00001", 1)

	err := s.db.WithTx(s.ctx, func(ctx context.Context) error {
		if _, err := s.counter.GetForUpdate(ctx); err != nil {
			return err
		}
		if err := s.invoices.Create(ctx, inv); err != nil {
			return err
		}
		_, err := s.counter.Increment(ctx)
		return err
	})
	s.Require().Error(err)
	s.True(ierr.IsDatabase(err))

	s.Equal(0, s.count("invoices"))
	s.Equal(0, s.count("invoice_items"))
	counter, err := s.counter.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), counter.CurrentNumber)
}

func (s *PostgresRepositorySuite) TestSaveAndReadBack() {
	resp, err := s.invoiceService().SaveInvoice(s.ctx, saveRequest("Acme Corp"))
	s.Require().NoError(err)

	inv, err := s.invoices.Get(s.ctx, resp.InvoiceID)
	s.Require().NoError(err)
	s.Equal("INV-00001", inv.InvoiceNumber)
	s.True(inv.Subtotal.Equal(decimal.NewFromInt(250)))
	s.True(inv.TaxAmount.Equal(decimal.NewFromInt(45)))
	s.True(inv.TotalAmount.Equal(decimal.NewFromInt(295)))
	s.Require().Len(inv.LineItems, 2)
	s.Equal("Widget", inv.LineItems[0].Description)
	s.Equal(2, inv.LineItems[1].OrderIndex)

	list, err := s.invoices.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(resp.InvoiceID, list[0].ID)

	_, err = s.invoices.Get(s.ctx, resp.InvoiceID+100)
	s.True(ierr.IsNotFound(err))
}

func (s *PostgresRepositorySuite) TestClientUpsertByName() {
	s.Require().NoError(s.clients.Upsert(s.ctx, client.NewClient("Acme Corp", "111", "Old Road", "")))
	s.Require().NoError(s.clients.Upsert(s.ctx, client.NewClient("Acme Corp", "222", "New Road", "GST1")))
	s.Require().NoError(s.clients.Upsert(s.ctx, client.NewClient("100% Cotton", "333", "", "")))

	s.Equal(2, s.count("clients"))

	c, err := s.clients.GetByName(s.ctx, "Acme Corp")
	s.Require().NoError(err)
	s.Equal("222", c.Phone)
	s.Equal("New Road", c.Address)

	found, err := s.clients.Search(s.ctx, "acme", 10)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("Acme Corp", found[0].Name)

	// wildcards in the query are matched literally
	found, err = s.clients.Search(s.ctx, "%", 10)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("100% Cotton", found[0].Name)
}

func (s *PostgresRepositorySuite) TestMissingCounterRow() {
	s.exec(`DELETE FROM invoice_counter`)

	_, err := s.counter.Get(s.ctx)
	s.True(ierr.IsNotInitialized(err))

	_, err = s.invoiceService().SaveInvoice(s.ctx, saveRequest("Acme Corp"))
	s.True(ierr.IsNotInitialized(err))
	s.Equal(0, s.count("invoices"))
	s.Equal(0, s.count("clients"))
}
