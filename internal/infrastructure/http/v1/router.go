// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"santiye/internal/domain/auth"
	"santiye/internal/domain/catalogs/contractorprice"
	"santiye/internal/domain/catalogs/poz"
	"santiye/internal/domain/ledger"
	"santiye/internal/domain/projects"
	"santiye/internal/domain/reports"
	"santiye/internal/infrastructure/cdn"
	"santiye/internal/infrastructure/http/v1/handlers"
	"santiye/internal/infrastructure/http/v1/middleware"
	"santiye/internal/infrastructure/storage/postgres"
	"santiye/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator

	AuthService            *auth.Service
	PozService             *poz.Service
	ContractorPriceService *contractorprice.Service
	ProjectService         *projects.Service
	StockService           *ledger.Service
	ReportsService         *reports.Service

	CDNClient *cdn.Client
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	pozHandler := handlers.NewPozHandler(base, cfg.PozService)
	priceHandler := handlers.NewContractorPriceHandler(base, cfg.ContractorPriceService)
	projectHandler := handlers.NewProjectHandler(base, cfg.ProjectService)
	stockHandler := handlers.NewStockHandler(base, cfg.StockService)
	reportsHandler := handlers.NewReportsHandler(base, cfg.ReportsService)
	filesHandler := handlers.NewFilesHandler(base, cfg.CDNClient)

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator, cfg.AuthService))

		protected.GET("/auth/me", authHandler.Me)

		// User management (admin)
		admin := protected.Group("", middleware.RequireAdmin())
		{
			admin.POST("/auth/register", authHandler.Register)
			admin.GET("/users", authHandler.ListUsers)
			admin.PUT("/users/:id/active", authHandler.SetActive)
		}

		// Poz catalog. Reads for everyone, writes for office staff and admins.
		protected.GET("/poz", pozHandler.List)
		protected.GET("/poz/:id", pozHandler.Get)

		catalogWrite := protected.Group("", middleware.RequireUserType(auth.UserTypeOffice))
		{
			catalogWrite.POST("/poz", pozHandler.Upsert)
			catalogWrite.POST("/poz/bulk", pozHandler.BulkUpsert)
			catalogWrite.POST("/poz/import", pozHandler.Import)
			catalogWrite.PUT("/poz/:id", pozHandler.Update)
			catalogWrite.DELETE("/poz/:id", pozHandler.Delete)

			catalogWrite.POST("/contractors/:id/prices", priceHandler.SetPrice)
			catalogWrite.POST("/contractors/:id/prices/bulk", priceHandler.BulkSetPrices)
		}
		protected.GET("/contractors/:id/prices", priceHandler.ListPrices)

		// Projects
		protected.GET("/projects", projectHandler.List)
		protected.GET("/projects/:id", projectHandler.Get)
		protected.POST("/projects", projectHandler.Create)
		protected.PUT("/projects/:id", projectHandler.Update)
		protected.PUT("/projects/:id/status", projectHandler.SetStatus)
		protected.DELETE("/projects/:id", projectHandler.Delete)
		protected.GET("/projects/:id/poz", projectHandler.ListAssignments)
		protected.POST("/projects/:id/poz", projectHandler.AddPoz)
		protected.DELETE("/projects/:id/poz/:assignmentId", projectHandler.RemovePoz)

		// Stock ledger. Mutations for office staff and admins.
		stockWrite := protected.Group("", middleware.RequireUserType(auth.UserTypeOffice))
		{
			stockWrite.POST("/stock/replenish", stockHandler.Replenish)
			stockWrite.POST("/stock/transfer", stockHandler.Transfer)
			stockWrite.POST("/stock/refund", stockHandler.Refund)
		}
		protected.GET("/stock/central", stockHandler.ListCentral)
		protected.GET("/stock/mine", stockHandler.ListMyStock)
		protected.GET("/stock/users/:id", stockHandler.ListUserStock)
		protected.GET("/stock/log", stockHandler.ListLog)

		// Reports
		protected.GET("/reports/projects/:id", reportsHandler.GetProjectReport)
		protected.GET("/reports/projects/:id/excel", reportsHandler.ExportProjectReport)
		protected.GET("/reports/stock/excel", reportsHandler.ExportStockReport)

		// Files
		protected.POST("/files", filesHandler.Upload)
	}

	return router
}
