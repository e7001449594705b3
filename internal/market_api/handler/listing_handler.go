package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/middleware"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/service"
)

// ListingHandler handles the market catalog
type ListingHandler struct {
	listingService service.ListingService
	logger         *slog.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(logger *slog.Logger, listingService service.ListingService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		logger:         logger,
	}
}

// Publish puts an item on the market
func (h *ListingHandler) Publish(c *gin.Context) {
	var req PublishItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLogger(c, h.logger).Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	l, err := h.listingService.Publish(c.Request.Context(), &service.PublishRequest{
		OwnerID:  req.SteamID,
		AssetID:  req.AssetID,
		Name:     req.Name,
		ImageURL: req.ImageURL,
		Price:    req.Price,
	})
	if err != nil {
		respondFailure(c, h.logger, "Failed to publish item", err, "asset_id", req.AssetID)
		return
	}

	RespondCreated(c, l)
}

// ChangePrice reprices a published item
func (h *ListingHandler) ChangePrice(c *gin.Context) {
	assetID := c.Param("assetId")

	var req ChangePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	l, err := h.listingService.ChangePrice(c.Request.Context(), assetID, req.Price)
	if err != nil {
		respondFailure(c, h.logger, "Failed to change price", err, "asset_id", assetID)
		return
	}

	RespondOK(c, l)
}

// Remove takes a published item off the market
func (h *ListingHandler) Remove(c *gin.Context) {
	assetID := c.Param("assetId")

	if err := h.listingService.Remove(c.Request.Context(), assetID); err != nil {
		respondFailure(c, h.logger, "Failed to remove item", err, "asset_id", assetID)
		return
	}

	RespondOK(c, gin.H{"message": "Item removed successfully"})
}

// ListMarket returns every published item
func (h *ListingHandler) ListMarket(c *gin.Context) {
	listings, err := h.listingService.ListMarket(c.Request.Context())
	if err != nil {
		respondFailure(c, h.logger, "Failed to list market items", err)
		return
	}

	RespondOK(c, listings)
}

// ListSelling returns the published items of one seller
func (h *ListingHandler) ListSelling(c *gin.Context) {
	ownerID := c.Param("id")

	listings, err := h.listingService.ListSelling(c.Request.Context(), ownerID)
	if err != nil {
		respondFailure(c, h.logger, "Failed to list selling items", err, "steam_id", ownerID)
		return
	}

	RespondOK(c, listings)
}
