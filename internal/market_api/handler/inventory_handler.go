package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/service"
)

// InventoryHandler serves cached Steam inventories
type InventoryHandler struct {
	inventoryService service.InventoryService
	logger           *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(logger *slog.Logger, inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// Get returns the inventory, served from cache while it is fresh
func (h *InventoryHandler) Get(c *gin.Context) {
	steamID := c.Param("steamId")

	inventory, err := h.inventoryService.Get(c.Request.Context(), steamID)
	if err != nil {
		respondFailure(c, h.logger, "Failed to get inventory", err, "steam_id", steamID)
		return
	}

	RespondOK(c, inventory)
}

// Fetch reads the inventory and records newly trade-banned items
func (h *InventoryHandler) Fetch(c *gin.Context) {
	steamID := c.Param("steamId")

	snapshot, err := h.inventoryService.ScanTradeBans(c.Request.Context(), steamID)
	if err != nil {
		respondFailure(c, h.logger, "Failed to fetch inventory", err, "steam_id", steamID)
		return
	}

	RespondOK(c, snapshot)
}

// Invalidate drops the cached inventory; repeating it is harmless
func (h *InventoryHandler) Invalidate(c *gin.Context) {
	steamID := c.Param("steamId")

	RespondOK(c, gin.H{"invalidated": h.inventoryService.Invalidate(steamID)})
}
