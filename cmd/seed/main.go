// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"santiye/internal/core/apperror"
	"santiye/internal/core/types"
	"santiye/internal/domain/audit"
	"santiye/internal/domain/auth"
	"santiye/internal/domain/catalogs/poz"
	"santiye/internal/infrastructure/storage/postgres"
	"santiye/internal/infrastructure/storage/postgres/auth_repo"
	"santiye/internal/infrastructure/storage/postgres/catalog_repo"
	"santiye/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	if err := seedAdminUser(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedCatalog(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed catalog", "error", err)
		}
	}

	log.Info("seed completed")
}

func seedAdminUser(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	email := getEnv("ADMIN_EMAIL", "admin@santiye.local")
	password := getEnv("ADMIN_PASSWORD", "changeme-now")

	repo := auth_repo.NewUserRepo(txManager)
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("seed-only"))
	service := auth.NewService(repo, jwtService, txManager)

	user, err := service.Register(ctx, email, password, "Sistem Yöneticisi", auth.UserTypeAdmin)
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeDuplicate {
			log.Infow("admin user already exists", "email", email)
			return nil
		}
		return err
	}

	log.Infow("admin user created", "email", email, "id", user.ID)
	return nil
}

func seedCatalog(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	repo := catalog_repo.NewPozRepo(txManager)
	service := poz.NewService(repo, txManager, audit.Noop{})

	starter := []poz.UpsertInput{
		{Code: "18.185/01", Name: "PPRC boru montajı Ø20", Unit: "m", PriceType: "M", Price: types.MustMoney("42.50")},
		{Code: "18.185/02", Name: "PPRC boru montajı Ø25", Unit: "m", PriceType: "M", Price: types.MustMoney("55.00")},
		{Code: "071.101", Name: "Küresel vana 1/2\"", Unit: "adet", PriceType: "M", Price: types.MustMoney("120.00")},
		{Code: "15.001", Name: "İşçilik, tesisat", Unit: "saat", PriceType: "L", Price: types.MustMoney("250.00")},
	}

	count, err := service.BulkUpsert(ctx, starter)
	if err != nil {
		return err
	}

	log.Infow("starter catalog seeded", "count", count)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
