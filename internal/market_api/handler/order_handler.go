package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/middleware"
	settlement "github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
)

// OrderHandler handles order lookups and lifecycle transitions
type OrderHandler struct {
	lifecycleService settlement.LifecycleService
	logger           *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(logger *slog.Logger, lifecycleService settlement.LifecycleService) *OrderHandler {
	return &OrderHandler{
		lifecycleService: lifecycleService,
		logger:           logger,
	}
}

// ListByParticipant returns every order where the steam id is buyer or seller
func (h *OrderHandler) ListByParticipant(c *gin.Context) {
	steamID := c.Param("id")

	orders, err := h.lifecycleService.ListByParticipant(c.Request.Context(), steamID)
	if err != nil {
		respondFailure(c, h.logger, "Failed to list orders", err, "steam_id", steamID)
		return
	}

	RespondOK(c, orders)
}

// GetByID returns a single order
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	o, err := h.lifecycleService.Get(c.Request.Context(), id)
	if err != nil {
		respondFailure(c, h.logger, "Failed to get order", err, "id", id.String())
		return
	}

	RespondOK(c, o)
}

// Confirm moves the order to waiting_confirmation and reports the hand-off attempt
func (h *OrderHandler) Confirm(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	result, err := h.lifecycleService.Confirm(c.Request.Context(), h.transition(c, id))
	if err != nil {
		respondFailure(c, h.logger, "Failed to confirm order", err, "id", id.String())
		return
	}

	RespondOK(c, ConfirmResponse{
		Message: "Order confirmed",
		Order:   result.Order,
		Handoff: result.Handoff,
	})
}

// Complete marks the hand-off as done
func (h *OrderHandler) Complete(c *gin.Context) {
	h.advance(c, "Failed to complete order", h.lifecycleService.Complete)
}

// Cancel cancels a pending order
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.advance(c, "Failed to cancel order", h.lifecycleService.Cancel)
}

func (h *OrderHandler) advance(
	c *gin.Context,
	failure string,
	apply func(ctx context.Context, req *settlement.TransitionRequest) (*order.Order, error),
) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	o, err := apply(c.Request.Context(), h.transition(c, id))
	if err != nil {
		respondFailure(c, h.logger, failure, err, "id", id.String())
		return
	}

	RespondOK(c, o)
}

func (h *OrderHandler) orderID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		middleware.GetLogger(c, h.logger).Warn("Invalid order ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid order ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *OrderHandler) transition(c *gin.Context, id uuid.UUID) *settlement.TransitionRequest {
	return &settlement.TransitionRequest{
		OrderID:       id,
		CorrelationID: middleware.GetCorrelationID(c),
	}
}
