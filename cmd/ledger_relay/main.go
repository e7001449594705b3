package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/starmarket-sakvta/starmarket.api/internal/config"
	"github.com/starmarket-sakvta/starmarket.api/internal/data/mongo"
	"github.com/starmarket-sakvta/starmarket.api/internal/data/postgres"
	"github.com/starmarket-sakvta/starmarket.api/internal/ledger_relay/consumer"
	"github.com/starmarket-sakvta/starmarket.api/internal/ledger_relay/outbox_poller"
	"github.com/starmarket-sakvta/starmarket.api/internal/ledger_relay/service"
	"github.com/starmarket-sakvta/starmarket.api/internal/logger"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/messaging/consumers"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/messaging/producers"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/persistence"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/telemetry"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/workerpool"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("ledger_relay")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Ledger Relay",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	shutdownTelemetry, err := telemetry.Setup(appCtx, log, cfg.Application, cfg.Telemetry)
	if err != nil {
		log.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	// The API owns the schema; the relay only connects
	pgCfg := cfg.Postgres
	pgCfg.MigrationsPath = ""
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &pgCfg)
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

	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	ledgerRepo := mongo.NewLedgerRepository(log, mongoDB.Database())
	eventRepo := mongo.NewOrderEventRepository(log, mongoDB.Database())

	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka)

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	pool, err := workerpool.New(workerpool.Config{Size: cfg.WorkerPool.Size}, log.With("component", "worker_pool"))
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	recorder := service.NewWorkerPoolEventRecorder(
		service.NewEventRecorder(eventRepo, log.With("component", "event_recorder")),
		pool,
		log,
	)

	// A nil producer disables the DLQ; the handler checks for it
	var deadLetters producers.DeadLetterPublisher
	if dlqProducer != nil {
		deadLetters = dlqProducer
	}
	orderEventHandler := consumer.NewOrderEventHandler(log, recorder, deadLetters)

	poller := outbox_poller.NewPoller(
		&cfg.Outbox,
		outboxRepo,
		outbox_poller.NewLedgerPublisher(outboxRepo, ledgerRepo, log.With("component", "ledger_publisher")),
		log.With("component", "outbox_poller"),
	)

	errChan := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.OrderEventsTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, orderEventHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	pool.Shutdown()

	if dlqProducer != nil {
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if err = shutdownTelemetry(shutdownCtx); err != nil {
		log.Error("Error flushing telemetry", "error", err)
	}

	if serviceErr != nil {
		log.Error("Ledger Relay shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Ledger Relay shutdown completed with errors")
	} else {
		log.Info("Ledger Relay shutdown completed successfully")
	}
}
