package components

import (
	"context"
	"log/slog"
	"time"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/messaging/producers"
	"github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
)

// publishTimeout bounds one background publish
const publishTimeout = 10 * time.Second

// TaskSubmitter queues work on a bounded pool
type TaskSubmitter interface {
	Submit(task func()) error
}

// EventNotifierImpl publishes order events from the worker pool
type EventNotifierImpl struct {
	pool      TaskSubmitter
	publisher producers.OrderEventPublisher
	logger    *slog.Logger
}

func NewEventNotifier(pool TaskSubmitter, publisher producers.OrderEventPublisher, logger *slog.Logger) service.EventNotifier {
	return &EventNotifierImpl{
		pool:      pool,
		publisher: publisher,
		logger:    logger,
	}
}

// Notify hands the publish to the pool and returns at once. With every worker
// busy the event is dropped; failures are only logged.
func (n *EventNotifierImpl) Notify(ctx context.Context, e *order.Event) {
	// The request context ends with the response
	detached := context.WithoutCancel(ctx)
	err := n.pool.Submit(func() {
		publishCtx, cancel := context.WithTimeout(detached, publishTimeout)
		defer cancel()

		if err := n.publisher.PublishOrderEvent(publishCtx, e); err != nil {
			n.logger.Error("Failed to publish order event",
				"event_id", e.EventID.String(),
				"order_id", e.Order.ID.String(),
				"type", string(e.Type),
				"correlation_id", e.CorrelationID,
				"error", err,
			)
			return
		}

		n.logger.Debug("Order event published", "event_id", e.EventID.String(), "type", string(e.Type))
	})
	if err != nil {
		n.logger.Warn("Order event dropped",
			"event_id", e.EventID.String(),
			"order_id", e.Order.ID.String(),
			"error", err,
		)
	}
}
