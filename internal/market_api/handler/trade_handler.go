package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/middleware"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/service"
	"github.com/starmarket-sakvta/starmarket.api/internal/tradeoffer"
)

// TradeHandler sends trade offers on behalf of sellers
type TradeHandler struct {
	tradeService service.TradeService
	logger       *slog.Logger
}

// NewTradeHandler creates a new trade handler
func NewTradeHandler(logger *slog.Logger, tradeService service.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
		logger:       logger,
	}
}

// CreateTrade sends an offer for one item to an explicit trade url
func (h *TradeHandler) CreateTrade(c *gin.Context) {
	var req CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLogger(c, h.logger).Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	offerID, err := h.tradeService.CreateTrade(c.Request.Context(), &tradeoffer.TradeRequest{
		SellerSteamID: req.SellerSteamID,
		BuyerTradeURL: req.BuyerTradeURL,
		Item: tradeoffer.Item{
			AppID:     req.Item.AppID,
			ContextID: req.Item.ContextID,
			AssetID:   req.Item.AssetID,
		},
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		respondFailure(c, h.logger, "Failed to create trade offer", err, "seller_steam_id", req.SellerSteamID)
		return
	}

	RespondOK(c, TradeOfferResponse{TradeOfferID: offerID})
}

// CreateOffer is the hand-off endpoint: it resolves the buyer's trade url and sends the offer
func (h *TradeHandler) CreateOffer(c *gin.Context) {
	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLogger(c, h.logger).Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	request := handoff.Request{
		SellerID: req.SellerID,
		BuyerID:  req.BuyerID,
		AssetID:  req.AssetID,
	}
	if req.OrderID != "" {
		request.OrderID = uuid.MustParse(req.OrderID)
	}

	result, err := h.tradeService.CreateOffer(c.Request.Context(), request, middleware.GetCorrelationID(c))
	if err != nil {
		respondFailure(c, h.logger, "Failed to create offer", err, "asset_id", req.AssetID)
		return
	}

	RespondOK(c, TradeOfferResponse{TradeOfferID: result.TradeOfferID})
}
