package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
)

// HandoffFailuresCollectionName holds hand-offs that need manual follow-up
const HandoffFailuresCollectionName = "handoff_failures"

// HandoffFailureRepository implements the handoff.FailureRepository interface for MongoDB
type HandoffFailureRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewHandoffFailureRepository creates a new MongoDB hand-off failure repository
func NewHandoffFailureRepository(logger *slog.Logger, db *mongo.Database) handoff.FailureRepository {
	return &HandoffFailureRepository{
		db:     db,
		logger: logger,
	}
}

func (r *HandoffFailureRepository) Create(ctx context.Context, f *handoff.Failure) error {
	if _, err := r.db.Collection(HandoffFailuresCollectionName).InsertOne(ctx, f); err != nil {
		r.logger.Error("Failed to record hand-off failure",
			"order_id", f.OrderID.String(),
			"error", err)
		return fmt.Errorf("failed to record hand-off failure: %w", err)
	}
	return nil
}

// ListByOrderID returns every recorded failure of one order, oldest first
func (r *HandoffFailureRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*handoff.Failure, error) {
	collection := r.db.Collection(HandoffFailuresCollectionName)

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{"order_id": orderID}, opts)
	if err != nil {
		r.logger.Error("Failed to list hand-off failures", "order_id", orderID.String(), "error", err)
		return nil, fmt.Errorf("failed to list hand-off failures: %w", err)
	}
	defer cursor.Close(ctx)

	failures := make([]*handoff.Failure, 0)
	if err := cursor.All(ctx, &failures); err != nil {
		return nil, fmt.Errorf("failed to decode hand-off failures: %w", err)
	}

	return failures, nil
}
