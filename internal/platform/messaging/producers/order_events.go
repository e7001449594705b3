package producers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/starmarket-sakvta/starmarket.api/internal/config"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
)

// EventTypeHeader carries the event type so consumers can route without decoding
const EventTypeHeader = "event-type"

type OrderEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewOrderEventProducer dials the brokers, ensures the order event topic exists and
// returns a synchronous producer. Events are keyed by order ID so one order's
// events stay on one partition, in order.
func NewOrderEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*OrderEventProducer, error) {
	if cfg.OrderEventsTopic == "" {
		return nil, errors.New("kafka order events topic is not configured")
	}

	writer, err := newTopicWriter(ctx, logger, cfg, cfg.OrderEventsTopic, &kafka.Hash{}, kafka.RequireOne)
	if err != nil {
		return nil, fmt.Errorf("order event producer: %w", err)
	}

	return newOrderEventProducer(logger, writer, cfg.OrderEventsTopic), nil
}

func newOrderEventProducer(logger *slog.Logger, writer KafkaWriter, topic string) *OrderEventProducer {
	return &OrderEventProducer{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

func (p *OrderEventProducer) PublishOrderEvent(ctx context.Context, e *order.Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.Order.ID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: EventTypeHeader, Value: []byte(e.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish order event",
			"topic", p.topic,
			"event_id", e.EventID.String(),
			"order_id", e.Order.ID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to publish order event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published order event",
		"topic", p.topic,
		"event_type", string(e.Type),
		"order_id", e.Order.ID.String(),
	)
	return nil
}

func (p *OrderEventProducer) Close() error {
	p.logger.Info("Closing order event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
