// Package main is the entry point for the santiye API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"santiye/internal/domain/auth"
	"santiye/internal/domain/catalogs/contractorprice"
	"santiye/internal/domain/catalogs/poz"
	"santiye/internal/domain/ledger"
	"santiye/internal/domain/projects"
	"santiye/internal/domain/reports"
	"santiye/internal/infrastructure/cdn"
	v1 "santiye/internal/infrastructure/http/v1"
	"santiye/internal/infrastructure/storage/postgres"
	"santiye/internal/infrastructure/storage/postgres/auth_repo"
	"santiye/internal/infrastructure/storage/postgres/catalog_repo"
	"santiye/internal/infrastructure/storage/postgres/ledger_repo"
	"santiye/internal/infrastructure/storage/postgres/project_repo"
	"santiye/internal/infrastructure/storage/postgres/report_repo"
	"santiye/pkg/logger"
)

func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting santiye server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Audit ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	userRepo := auth_repo.NewUserRepo(txManager)
	pozRepo := catalog_repo.NewPozRepo(txManager)
	priceRepo := catalog_repo.NewContractorPriceRepo(txManager)
	projectRepo := project_repo.NewProjectRepo(txManager)
	stockRepo := ledger_repo.NewLedgerRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)

	// --- JWT ---
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))

	// --- Services ---
	authService := auth.NewService(userRepo, jwtService, txManager)
	pozService := poz.NewService(pozRepo, txManager, auditService)
	priceService := contractorprice.NewService(priceRepo, txManager)
	stockService := ledger.NewService(stockRepo, txManager)
	projectService := projects.NewService(projectRepo, pozRepo, priceRepo, stockService, txManager, auditService)
	reportsService := reports.NewService(reportRepo)

	// --- CDN file service ---
	cdnClient := cdn.NewClient(
		getEnv("CDN_BASE_URL", "http://localhost:8090"),
		getEnvDuration("CDN_TIMEOUT", 30*time.Second),
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:                   pool,
		Logger:                 log,
		JWTValidator:           jwtService,
		AuthService:            authService,
		PozService:             pozService,
		ContractorPriceService: priceService,
		ProjectService:         projectService,
		StockService:           stockService,
		ReportsService:         reportsService,
		CDNClient:              cdnClient,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
