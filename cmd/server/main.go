package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/billbook/billbook/internal/api"
	v1 "github.com/billbook/billbook/internal/api/v1"
	"github.com/billbook/billbook/internal/auth"
	"github.com/billbook/billbook/internal/cache"
	"github.com/billbook/billbook/internal/config"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/postgres"
	"github.com/billbook/billbook/internal/repository"
	"github.com/billbook/billbook/internal/service"
	"github.com/billbook/billbook/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Billbook API
// @version 1.0
// @description Invoice storage and numbering service
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the token in the format *Bearer &lt;token&gt;*

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			provideCache,

			// Postgres
			postgres.NewDB,
			provideTxClient,

			// Auth
			auth.NewProvider,

			// Repositories
			repository.NewInvoiceRepository,
			repository.NewCounterRepository,
			repository.NewClientRepository,
			repository.NewSettingsRepository,
			repository.NewUserRepository,

			// Services
			service.NewServiceParams,
			service.NewInvoiceService,
			service.NewClientService,
			service.NewSettingsService,
			service.NewAuthService,

			// Handlers
			provideHandlers,

			// Router
			api.NewRouter,
		),
		fx.Invoke(
			validator.NewValidator,
			startAPIServer,
		),
	)
	app.Run()
}

func provideCache(cfg *config.Configuration, log *logger.Logger) cache.Cache {
	return cache.NewInMemoryCache(cfg, log)
}

func provideTxClient(db *postgres.DB) postgres.IClient {
	return db
}

func provideHandlers(
	logger *logger.Logger,
	invoiceService service.InvoiceService,
	clientService service.ClientService,
	settingsService service.SettingsService,
	authService service.AuthService,
) api.Handlers {
	return api.Handlers{
		Auth:     v1.NewAuthHandler(authService, logger),
		Invoice:  v1.NewInvoiceHandler(invoiceService, logger),
		Client:   v1.NewClientHandler(clientService, logger),
		Settings: v1.NewSettingsHandler(settingsService, logger),
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	db *postgres.DB,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			err := srv.Shutdown(ctx)
			db.Close()
			return err
		},
	})
}
