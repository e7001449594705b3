package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-resty/resty/v2"
	"github.com/starmarket-sakvta/starmarket.api/internal/config"
	"github.com/starmarket-sakvta/starmarket.api/internal/data/mongo"
	"github.com/starmarket-sakvta/starmarket.api/internal/data/postgres"
	"github.com/starmarket-sakvta/starmarket.api/internal/inventory"
	"github.com/starmarket-sakvta/starmarket.api/internal/logger"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/service"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/messaging/producers"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/persistence"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/telemetry"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/workerpool"
	"github.com/starmarket-sakvta/starmarket.api/internal/settlement/components"
	"github.com/starmarket-sakvta/starmarket.api/internal/tradeoffer"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("market_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	shutdownTelemetry, err := telemetry.Setup(appCtx, log, cfg.Application, cfg.Telemetry)
	if err != nil {
		log.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	// Migrations run before the pool opens
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}
	if err := mongoDB.EnsureIndexes(appCtx, mongo.Indexes()); err != nil {
		log.Error("Failed to ensure MongoDB indexes", "error", err)
		os.Exit(1)
	}

	orderEventProducer, err := producers.NewOrderEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize order event producer", "error", err)
		os.Exit(1)
	}

	pool, err := workerpool.New(workerpool.Config{Size: cfg.WorkerPool.Size, Nonblocking: true}, log.With("component", "worker_pool"))
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	// Repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	listingRepo := postgres.NewListingRepository(log, postgresDB)
	orderRepo := postgres.NewOrderRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	profileRepo := postgres.NewProfileRepository(log, postgresDB)
	sessionRepo := postgres.NewSessionRepository(log, postgresDB)
	tradeBanRepo := postgres.NewTradeBanRepository(log, postgresDB)
	ledgerRepo := mongo.NewLedgerRepository(log, mongoDB.Database())
	failureRepo := mongo.NewHandoffFailureRepository(log, mongoDB.Database())

	settlementServices := components.CreateServices(components.Dependencies{
		DB:          postgresDB,
		AccountRepo: accountRepo,
		ListingRepo: listingRepo,
		OrderRepo:   orderRepo,
		OutboxRepo:  outboxRepo,
		LedgerRepo:  ledgerRepo,
		FailureRepo: failureRepo,
		Pool:        pool,
		Publisher:   orderEventProducer,
		Gateway:     tradeoffer.NewGatewayClient(log.With("component", "handoff_gateway"), &cfg.Handoff),
	}, log)

	tradeService := tradeoffer.NewService(
		profileRepo,
		sessionRepo,
		tradeoffer.NewSteamClient(log.With("component", "steam_trade"), &cfg.Handoff),
		log.With("component", "trade_offer"),
	)

	inventoryService := inventory.NewService(
		inventory.NewSteamClient(log.With("component", "steam_inventory"), resty.New(), cfg.Inventory.BaseURL),
		inventory.NewCache(cfg.Inventory.CacheTTL),
		tradeBanRepo,
		cfg.Inventory.TradeBanCooldown,
		log.With("component", "inventory"),
	)

	server := market_api.NewServer(log, cfg, &market_api.Services{
		Settlement: settlementServices.Settlement,
		Ledger:     settlementServices.Ledger,
		Lifecycle:  settlementServices.Lifecycle,
		Listing:    service.NewListingService(listingRepo, accountRepo, log.With("component", "listing")),
		Profile:    service.NewProfileService(profileRepo, sessionRepo, log.With("component", "profile")),
		Trade:      tradeService,
		Inventory:  inventoryService,
		Workers:    pool,
	})
	log.Info("REST server initialized")

	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop accepting requests before tearing down what they use
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	pool.Shutdown()

	if err = orderEventProducer.Close(); err != nil {
		log.Error("Error closing order event producer", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if err = shutdownTelemetry(shutdownCtx); err != nil {
		log.Error("Error flushing telemetry", "error", err)
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Market API shutdown completed with errors")
	} else {
		log.Info("Market API shutdown completed successfully")
	}
}
