package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/middleware"
	settlement "github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
)

// SettlementHandler handles purchases
type SettlementHandler struct {
	settlementService settlement.SettlementService
	logger            *slog.Logger
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(logger *slog.Logger, settlementService settlement.SettlementService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
		logger:            logger,
	}
}

// Buy settles a purchase atomically. Every precondition failure is a 400.
func (h *SettlementHandler) Buy(c *gin.Context) {
	logger := middleware.GetLogger(c, h.logger)

	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.settlementService.Settle(c.Request.Context(), &settlement.BuyRequest{
		BuyerID:       req.BuyerID,
		SellerID:      req.SellerID,
		AssetID:       req.ItemID,
		Price:         req.Price,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		if _, ok := errorKind(err); !ok {
			logger.Error("Failed to settle purchase", "asset_id", req.ItemID, "error", err)
		}
		RespondPreconditionFailure(c, err)
		return
	}

	RespondOK(c, BuyResponse{
		Message:       "Purchase successful",
		BuyerBalance:  result.BuyerBalance,
		SellerBalance: result.SellerBalance,
		Order:         result.Order,
	})
}
