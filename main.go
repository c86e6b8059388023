package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/prismlab/pricebook/pkg/config"
	"github.com/prismlab/pricebook/pkg/database"
	"github.com/prismlab/pricebook/pkg/handlers"
	"github.com/prismlab/pricebook/pkg/middleware"
	"github.com/prismlab/pricebook/pkg/repositories"
	"github.com/prismlab/pricebook/pkg/services"
	"github.com/prismlab/pricebook/pkg/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // flushing on exit is best-effort

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.String("uploads_dir", cfg.Uploads.Dir))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// golang-migrate needs a database/sql handle.
	sqlDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	uploads, err := storage.NewUploadStore(cfg.Uploads.Dir)
	if err != nil {
		logger.Fatal("Failed to create upload store", zap.Error(err))
	}

	catalogRepo := repositories.NewCatalogRepository()
	ingestSvc := services.NewIngestService(db, catalogRepo, uploads,
		cfg.Parser.HeaderScanRows, cfg.Parser.MaxWarnings, logger)
	intelSvc := services.NewPriceIntelligenceService(db, catalogRepo, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	apiMux := http.NewServeMux()
	catalogHandler := handlers.NewCatalogHandler(ingestSvc, intelSvc, cfg.Uploads.MaxBytes, logger)
	catalogHandler.RegisterRoutes(apiMux)
	mux.Handle("/api/", middleware.CallerIdentity()(apiMux))

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting pricebook", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
