package market_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/handler"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type handlers struct {
	settlement *handler.SettlementHandler
	balance    *handler.BalanceHandler
	order      *handler.OrderHandler
	listing    *handler.ListingHandler
	profile    *handler.ProfileHandler
	trade      *handler.TradeHandler
	inventory  *handler.InventoryHandler
}

// setupRouter configures API routes and middleware for the application.
// The span is opened first so the correlation id can be attached to it.
func setupRouter(logger *slog.Logger, serviceName string, r *gin.Engine, workers WorkerStats, h *handlers) {
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	// Settlement
	r.POST("/buy", h.settlement.Buy)

	// Balances
	r.GET("/balance/:steamId", h.balance.GetBalance)
	r.GET("/balance/:steamId/audit", h.balance.Audit)
	r.POST("/deposit", h.balance.Deposit)
	r.POST("/withdraw", h.balance.Withdraw)

	// Orders
	r.GET("/orders/:id", h.order.ListByParticipant)
	r.GET("/order/:id", h.order.GetByID)
	r.PUT("/order/confirm/:id", h.order.Confirm)
	r.PUT("/order/complete/:id", h.order.Complete)
	r.PUT("/order/cancel/:id", h.order.Cancel)

	// Market catalog
	r.POST("/publish_item", h.listing.Publish)
	r.PUT("/change_price/:assetId", h.listing.ChangePrice)
	r.DELETE("/remove_item/:assetId", h.listing.Remove)
	r.GET("/market_items", h.listing.ListMarket)
	r.GET("/selling_items/:id", h.listing.ListSelling)

	// Profiles and Steam sessions
	r.GET("/user/:steamId", h.profile.Get)
	r.PUT("/user/update", h.profile.Update)
	r.POST("/auth/steam/session", h.profile.SaveSession)

	// Trade offers
	r.POST("/trade/create", h.trade.CreateTrade)
	r.POST("/create_offer", h.trade.CreateOffer)

	// Inventory
	r.GET("/inventory/:steamId", h.inventory.Get)
	r.GET("/fetch_inventory/:steamId", h.inventory.Fetch)
	r.DELETE("/inventory/:steamId/cache", h.inventory.Invalidate)

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok", "timestamp": time.Now().UTC()}
		if workers != nil {
			body["workers"] = gin.H{"running": workers.Running(), "capacity": workers.Capacity()}
		}
		c.JSON(http.StatusOK, body)
	})
}
