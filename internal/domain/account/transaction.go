package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// Transaction is one immutable entry in an account's history.
// Seq is assigned by the store and orders entries of the same account.
type Transaction struct {
	ID        uuid.UUID                `json:"id"`
	Seq       int64                    `json:"seq"`
	SteamID   string                   `json:"steam_id"`
	Kind      shared.TransactionKind   `json:"kind"`
	Amount    int64                    `json:"amount"`
	Status    shared.TransactionStatus `json:"status"`
	OrderID   *uuid.UUID               `json:"order_id,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

// NewTransaction builds a history entry for steamID
func NewTransaction(steamID string, kind shared.TransactionKind, amount int64, status shared.TransactionStatus) (*Transaction, error) {
	if !kind.Valid() {
		return nil, shared.NewInvalidRequest("unknown transaction kind: " + string(kind))
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Transaction{
		ID:        uuid.New(),
		SteamID:   steamID,
		Kind:      kind,
		Amount:    amount,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ForOrder links the entry to the order that produced it
func (t *Transaction) ForOrder(orderID uuid.UUID) *Transaction {
	t.OrderID = &orderID
	return t
}

// Statement is an account together with its full history, oldest first
type Statement struct {
	Account      *Account       `json:"account"`
	Transactions []*Transaction `json:"transactions"`
}
