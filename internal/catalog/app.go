// Package catalog wires the OneAI catalog application together.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oneai-dev/oneai/internal/catalog/api"
	"github.com/oneai-dev/oneai/internal/catalog/assets"
	"github.com/oneai-dev/oneai/internal/catalog/auth"
	"github.com/oneai-dev/oneai/internal/catalog/config"
	"github.com/oneai-dev/oneai/internal/catalog/database"
	"github.com/oneai-dev/oneai/internal/catalog/descgen"
	"github.com/oneai-dev/oneai/internal/catalog/seed"
	"github.com/oneai-dev/oneai/internal/catalog/service"
	"github.com/oneai-dev/oneai/internal/catalog/telemetry"
)

// App runs the catalog server until it receives SIGINT or SIGTERM.
func App(_ context.Context) error {
	cfg := config.NewConfig()

	// Bounded context for the initial PostgreSQL connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := NewDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("Database connection closed successfully")
		}
	}()

	catalogService := NewService(cfg, db)

	// Import builtin seed data into an empty catalog unless it is disabled
	if !cfg.DisableBuiltinSeed {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			count, err := db.CountAgents(ctx, nil, nil)
			if err != nil {
				log.Printf("Skipping builtin seed import, count failed: %v", err)
				return
			}
			if count > 0 {
				return
			}

			log.Printf("Importing builtin seed data in the background...")
			if err := seed.ImportBuiltinSeedData(ctx, catalogService); err != nil {
				log.Printf("Failed to import builtin seed data: %v", err)
			}
		}()
	}

	log.Printf("Starting oneai catalog %s", cfg.Version)

	shutdownTelemetry, metrics, err := telemetry.InitMetrics(cfg.Version)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Printf("Failed to shutdown telemetry: %v", err)
		}
	}()

	server := api.NewServer(cfg, catalogService, db, metrics)

	// Start server in a goroutine so it doesn't block signal handling
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()

	if err := server.Shutdown(sctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
	return nil
}

// NewDatabase selects the row store from configuration. DATABASE_URL="noop"
// runs the in-memory store, meant for local development and tests; anything
// else is treated as a PostgreSQL connection string.
func NewDatabase(ctx context.Context, cfg *config.Config) (database.Database, error) {
	if cfg.DatabaseURL == "noop" {
		log.Println("Using in-memory database (noop mode)")
		return database.NewMemory(), nil
	}

	db, err := database.NewPostgreSQL(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	return db, nil
}

// NewService builds the catalog service with the collaborators configuration
// enables: the bucket asset store when a storage URL is set, the inference
// provider when generation is enabled.
func NewService(cfg *config.Config, db database.Database) service.CatalogService {
	var assetStore assets.Store
	if cfg.Storage.URL != "" {
		client := &http.Client{Timeout: 30 * time.Second}
		assetStore = assets.NewBucketStore(cfg.Storage.URL, cfg.Storage.APIKey, client)
		log.Println("Logo uploads enabled")
	} else {
		log.Println("No storage URL configured, logo uploads disabled")
	}

	var generator descgen.Provider
	if cfg.Generator.Enabled && cfg.Generator.APIURL != "" {
		client := &http.Client{Timeout: 60 * time.Second}
		generator = descgen.NewInferenceProvider(cfg.Generator.APIURL, cfg.Generator.APIKey, client)
		log.Println("Description generation enabled")
	} else {
		generator = descgen.TemplateProvider{}
	}

	return service.NewCatalogService(db, cfg, assetStore, generator, auth.AllowAll{})
}
