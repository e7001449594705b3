package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Indexes lists the indexes every collection of this package relies on.
// The unique keys back the idempotent upserts.
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		LedgerCollectionName: {
			{
				Keys:    bson.D{{Key: "transaction_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uq_transaction_id"),
			},
			{
				Keys:    bson.D{{Key: "steam_id", Value: 1}, {Key: "seq", Value: -1}},
				Options: options.Index().SetName("idx_steam_id_seq"),
			},
		},
		OrderEventsCollectionName: {
			{
				Keys:    bson.D{{Key: "event_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uq_event_id"),
			},
			{
				Keys:    bson.D{{Key: "order.id", Value: 1}, {Key: "occurred_at", Value: 1}},
				Options: options.Index().SetName("idx_order_id"),
			},
		},
		HandoffFailuresCollectionName: {
			{
				Keys:    bson.D{{Key: "order_id", Value: 1}},
				Options: options.Index().SetName("idx_order_id"),
			},
		},
	}
}
