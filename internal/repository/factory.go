package repository

import (
	"github.com/billbook/billbook/internal/domain/client"
	"github.com/billbook/billbook/internal/domain/invoice"
	"github.com/billbook/billbook/internal/domain/settings"
	"github.com/billbook/billbook/internal/domain/user"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/postgres"
	postgresRepo "github.com/billbook/billbook/internal/repository/postgres"
)

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

func NewCounterRepository(db *postgres.DB, logger *logger.Logger) invoice.CounterRepository {
	return postgresRepo.NewCounterRepository(db, logger)
}

func NewClientRepository(db *postgres.DB, logger *logger.Logger) client.Repository {
	return postgresRepo.NewClientRepository(db, logger)
}

func NewSettingsRepository(db *postgres.DB, logger *logger.Logger) settings.Repository {
	return postgresRepo.NewSettingsRepository(db, logger)
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return postgresRepo.NewUserRepository(db, logger)
}
