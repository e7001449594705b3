// Package handoff describes the external transfer of item custody from seller
// to buyer through the provider's trade-offer mechanism.
package handoff

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// Request asks the provider side to move one asset from seller to buyer
type Request struct {
	OrderID  uuid.UUID `json:"order_id"`
	SellerID string    `json:"seller_id"`
	BuyerID  string    `json:"buyer_id"`
	AssetID  string    `json:"asset_id"`
}

// Result identifies the trade offer the provider created
type Result struct {
	TradeOfferID string `json:"trade_offer_id"`
}

// Outcome is what a confirmation reports about the gateway call it made
type Outcome struct {
	Requested    bool   `json:"requested"`
	TradeOfferID string `json:"trade_offer_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Failure is the record kept for a hand-off that did not go through
type Failure struct {
	ID            uuid.UUID `json:"id" bson:"_id"`
	OrderID       uuid.UUID `json:"order_id" bson:"order_id"`
	SellerID      string    `json:"seller_id" bson:"seller_id"`
	BuyerID       string    `json:"buyer_id" bson:"buyer_id"`
	AssetID       string    `json:"asset_id" bson:"asset_id"`
	Reason        string    `json:"reason" bson:"reason"`
	CorrelationID string    `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at" bson:"occurred_at"`
}

// NewFailure records why req could not be handed off
func NewFailure(req Request, reason, correlationID string) *Failure {
	return &Failure{
		ID:            uuid.New(),
		OrderID:       req.OrderID,
		SellerID:      req.SellerID,
		BuyerID:       req.BuyerID,
		AssetID:       req.AssetID,
		Reason:        reason,
		CorrelationID: correlationID,
		OccurredAt:    time.Now().UTC(),
	}
}

// FailureRepository stores hand-off failures for manual follow-up
type FailureRepository interface {
	Create(ctx context.Context, f *Failure) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*Failure, error)
}

// ErrGatewayFailure wraps an error returned by the provider side
type ErrGatewayFailure struct {
	Operation string
	Err       error
}

func (e ErrGatewayFailure) Error() string {
	return e.Operation + " failed: " + e.Err.Error()
}

func (e ErrGatewayFailure) Unwrap() error {
	return e.Err
}

// Is matches shared.ErrGatewayFailure
func (e ErrGatewayFailure) Is(target error) bool {
	return target == shared.ErrGatewayFailure
}
