package market_api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/starmarket-sakvta/starmarket.api/internal/config"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/handler"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/service"
	settlement "github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
)

// Services are the application services the HTTP layer exposes
type Services struct {
	Settlement settlement.SettlementService
	Ledger     settlement.LedgerService
	Lifecycle  settlement.LifecycleService
	Listing    service.ListingService
	Profile    service.ProfileService
	Trade      service.TradeService
	Inventory  service.InventoryService
	Workers    WorkerStats
}

// WorkerStats reports background worker usage on /health
type WorkerStats interface {
	Running() int
	Capacity() int
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, services *Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	setupRouter(log, cfg.Application.Name, httpRouter, services.Workers, &handlers{
		settlement: handler.NewSettlementHandler(log, services.Settlement),
		balance:    handler.NewBalanceHandler(log, services.Ledger),
		order:      handler.NewOrderHandler(log, services.Lifecycle),
		listing:    handler.NewListingHandler(log, services.Listing),
		profile:    handler.NewProfileHandler(log, services.Profile),
		trade:      handler.NewTradeHandler(log, services.Trade),
		inventory:  handler.NewInventoryHandler(log, services.Inventory),
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Handler exposes the configured router
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server, waiting at most the write timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
