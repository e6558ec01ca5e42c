package service

import (
	"github.com/billbook/billbook/internal/auth"
	"github.com/billbook/billbook/internal/cache"
	"github.com/billbook/billbook/internal/config"
	"github.com/billbook/billbook/internal/domain/client"
	"github.com/billbook/billbook/internal/domain/invoice"
	"github.com/billbook/billbook/internal/domain/settings"
	"github.com/billbook/billbook/internal/domain/user"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache
	Auth   auth.Provider

	// Repositories
	InvoiceRepo  invoice.Repository
	CounterRepo  invoice.CounterRepository
	ClientRepo   client.Repository
	SettingsRepo settings.Repository
	UserRepo     user.Repository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	authProvider auth.Provider,
	invoiceRepo invoice.Repository,
	counterRepo invoice.CounterRepository,
	clientRepo client.Repository,
	settingsRepo settings.Repository,
	userRepo user.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		DB:           db,
		Cache:        cache,
		Auth:         authProvider,
		InvoiceRepo:  invoiceRepo,
		CounterRepo:  counterRepo,
		ClientRepo:   clientRepo,
		SettingsRepo: settingsRepo,
		UserRepo:     userRepo,
	}
}
