package api

import (
	v1 "github.com/billbook/billbook/internal/api/v1"
	"github.com/billbook/billbook/internal/auth"
	"github.com/billbook/billbook/internal/config"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/rest/middleware"
	"github.com/billbook/billbook/internal/types"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Auth     *v1.AuthHandler
	Invoice  *v1.InvoiceHandler
	Client   *v1.ClientHandler
	Settings *v1.SettingsHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, provider auth.Provider) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.RequestLogger(logger),
		middleware.CORSMiddleware,
		middleware.ErrorHandler(logger),
	)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	public := router.Group("/api")
	{
		public.GET("/test", v1.Health)
		public.POST("/auth/login",
			middleware.RateLimitMiddleware(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginBurst),
			handlers.Auth.Login,
		)
	}

	private := router.Group("/api")
	private.Use(middleware.AuthenticateMiddleware(provider, logger))
	{
		private.POST("/auth/change-password", handlers.Auth.ChangePassword)

		invoice := private.Group("/invoice")
		{
			invoice.GET("/next-number", handlers.Invoice.GetNextNumber)
			invoice.POST("/save", handlers.Invoice.SaveInvoice)
			invoice.GET("/all", handlers.Invoice.ListInvoices)
			invoice.GET("/:id", handlers.Invoice.GetInvoice)
		}

		clients := private.Group("/clients")
		{
			clients.POST("/save", handlers.Client.SaveClient)
			clients.GET("/search", handlers.Client.SearchClients)
		}

		private.GET("/settings/company", handlers.Settings.GetCompanySettings)
	}

	return router
}
