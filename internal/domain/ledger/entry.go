package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// Entry is the audit copy of a committed account transaction
type Entry struct {
	TransactionID uuid.UUID                `json:"transaction_id" bson:"transaction_id"`
	Seq           int64                    `json:"seq" bson:"seq"`
	SteamID       string                   `json:"steam_id" bson:"steam_id"`
	Kind          shared.TransactionKind   `json:"kind" bson:"kind"`
	Amount        int64                    `json:"amount" bson:"amount"` // Stored in minor units
	Status        shared.TransactionStatus `json:"status" bson:"status"`
	OrderID       *uuid.UUID               `json:"order_id,omitempty" bson:"order_id,omitempty"`
	CorrelationID string                   `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	CreatedAt     time.Time                `json:"created_at" bson:"created_at"`
	MirroredAt    *time.Time               `json:"mirrored_at,omitempty" bson:"mirrored_at,omitempty"`
}

// NewEntry copies txn into an audit entry
func NewEntry(txn *account.Transaction, correlationID string) *Entry {
	return &Entry{
		TransactionID: txn.ID,
		Seq:           txn.Seq,
		SteamID:       txn.SteamID,
		Kind:          txn.Kind,
		Amount:        txn.Amount,
		Status:        txn.Status,
		OrderID:       txn.OrderID,
		CorrelationID: correlationID,
		CreatedAt:     txn.CreatedAt,
	}
}
