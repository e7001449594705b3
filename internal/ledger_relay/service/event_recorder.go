package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
)

// EventRecorderImpl writes order events into the order history
type EventRecorderImpl struct {
	eventRepo order.EventRepository
	logger    *slog.Logger
}

// NewEventRecorder creates a recorder backed by eventRepo
func NewEventRecorder(eventRepo order.EventRepository, logger *slog.Logger) *EventRecorderImpl {
	return &EventRecorderImpl{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// Record saves e; a redelivered event is stored once
func (r *EventRecorderImpl) Record(ctx context.Context, e *order.Event) error {
	if err := r.eventRepo.Save(ctx, e); err != nil {
		return fmt.Errorf("failed to record order event %s: %w", e.EventID, err)
	}

	r.logger.Info("Order event recorded",
		"event_id", e.EventID.String(),
		"type", string(e.Type),
		"order_id", e.Order.ID.String(),
		"status", string(e.Order.Status),
	)
	return nil
}
