package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
)

// OrderEventPublisher publishes order changes to the order event topic
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, e *order.Event) error
	Close() error
}

// DeadLetterPublisher handles publishing messages to a Dead Letter Queue
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
