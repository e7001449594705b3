// Package consumer turns order event messages into stored order history.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	"github.com/starmarket-sakvta/starmarket.api/internal/ledger_relay/service"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/messaging/producers"
)

// OrderEventHandler handles incoming order event messages from Kafka
type OrderEventHandler struct {
	recorder service.EventRecorder
	producer producers.DeadLetterPublisher
	logger   *slog.Logger
}

// NewOrderEventHandler creates a new handler; producer may be nil when no DLQ is configured
func NewOrderEventHandler(
	logger *slog.Logger,
	recorder service.EventRecorder,
	producer producers.DeadLetterPublisher,
) *OrderEventHandler {
	return &OrderEventHandler{
		recorder: recorder,
		producer: producer,
		logger:   logger,
	}
}

// HandleMessage stores one order event. Returning nil lets the consumer commit the offset.
func (h *OrderEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event order.Event
	if err := decodeEvent(value, &event); err != nil {
		return h.deadLetter(ctx, key, value, err)
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received order event",
		"event_id", event.EventID.String(),
		"type", string(event.Type),
		"order_id", event.Order.ID.String(),
	)

	if err := h.recorder.Record(ctx, &event); err != nil {
		return fmt.Errorf("recording order event %s failed: %w", event.EventID, err)
	}

	return nil
}

func decodeEvent(value []byte, event *order.Event) error {
	if err := json.Unmarshal(value, event); err != nil {
		return err
	}
	if event.EventID == uuid.Nil || event.Order.ID == uuid.Nil {
		return errors.New("event_id and order.id are required")
	}
	return nil
}

// deadLetter parks an undecodable message. Without a DLQ the error is
// returned so the offset stays uncommitted.
func (h *OrderEventHandler) deadLetter(ctx context.Context, key, value []byte, cause error) error {
	const unmarshalErrorMsg = "Failed to decode order event from Kafka message"
	h.logger.Error(unmarshalErrorMsg, "error", cause, "message_key", string(key))

	if h.producer != nil {
		dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, cause.Error())
		if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
			h.logger.Error("Failed to publish message to DLQ after decode error",
				"dlq_error", dlqErr,
				"original_error", cause,
				"message_key", string(key),
			)
		} else {
			return nil
		}
	}

	return fmt.Errorf("failed to decode message value: %w", cause)
}
