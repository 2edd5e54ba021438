// main.go
package main

import (
	"context"
	"log"

	"albergue-booking/cmd"
	"albergue-booking/internal/data/memstore"
	"albergue-booking/internal/data/repository"
	"albergue-booking/internal/wire"
	"albergue-booking/pkg/clock"
	"albergue-booking/pkg/database"
	"albergue-booking/pkg/metrics"
	"albergue-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	// Pick storage backend. The in-memory store keeps the full engine
	// usable without Postgres for demos and local runs.
	var (
		repos *repository.Repository
		txm   database.TxManager
	)

	switch config.Database.Driver {
	case "memory":
		store := memstore.New()
		repos = store.Repositories()
		txm = store
		logger.Info("Using in-memory store")
	default:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		repos = repository.NewRepository(db, logger)
		txm = database.NewTxManager(db)
		logger.Info("Database connected successfully")
	}

	m := metrics.New(config.App.Name)
	clk := clock.Real()

	// Wire all dependencies
	app := wire.Wiring(repos, txm, clk, m, config, logger)

	ctx := context.Background()

	if config.Engine.SeedOnStart {
		inserted, err := app.Service.Inventory.Seed(ctx)
		if err != nil {
			logger.Fatal("Failed to seed bed catalog", zap.Error(err))
		}
		logger.Info("Bed catalog seeded", zap.Int("inserted", inserted))
	}

	// Start the expiry sweeper
	app.Service.Sweeper.Start(ctx)

	if err := cmd.APIServer(app.Router, config.App.Port, logger, app.Service.Sweeper.Stop); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
