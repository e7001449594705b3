package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
)

// OrderEventsCollectionName holds every order event consumed from the stream
const OrderEventsCollectionName = "order_events"

// OrderEventRepository implements the order.EventRepository interface for MongoDB
type OrderEventRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewOrderEventRepository creates a new MongoDB order event repository
func NewOrderEventRepository(logger *slog.Logger, db *mongo.Database) order.EventRepository {
	return &OrderEventRepository{
		db:     db,
		logger: logger,
	}
}

// Save stores the event once per event ID; redelivered events are ignored
func (r *OrderEventRepository) Save(ctx context.Context, e *order.Event) error {
	collection := r.db.Collection(OrderEventsCollectionName)

	filter := bson.M{"event_id": e.EventID}
	update := bson.M{"$setOnInsert": e}
	opts := options.Update().SetUpsert(true)

	result, err := collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		r.logger.Error("Failed to save order event",
			"event_id", e.EventID.String(),
			"order_id", e.Order.ID.String(),
			"error", err)
		return fmt.Errorf("failed to save order event: %w", err)
	}

	if result.UpsertedCount == 0 {
		r.logger.Debug("Order event already stored", "event_id", e.EventID.String())
	}

	return nil
}

// ListByOrderID returns the events of one order in the order they happened
func (r *OrderEventRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*order.Event, error) {
	collection := r.db.Collection(OrderEventsCollectionName)

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{"order.id": orderID}, opts)
	if err != nil {
		r.logger.Error("Failed to list order events", "order_id", orderID.String(), "error", err)
		return nil, fmt.Errorf("failed to list order events: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]*order.Event, 0)
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode order events", "order_id", orderID.String(), "error", err)
		return nil, fmt.Errorf("failed to decode order events: %w", err)
	}

	return events, nil
}
