package order

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an order
type Status string

const (
	StatusPending             Status = "pending"
	StatusWaitingConfirmation Status = "waiting_confirmation"
	StatusCompleted           Status = "completed"
	StatusCanceled            Status = "canceled"
)

// transitions lists the allowed forward moves; terminal states have none
var transitions = map[Status][]Status{
	StatusPending:             {StatusWaitingConfirmation, StatusCanceled},
	StatusWaitingConfirmation: {StatusCompleted},
}

// Terminal reports whether no transition leaves s
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// CanTransitionTo reports whether s may move directly to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order records one settled purchase and the progress of its hand-off
type Order struct {
	ID        uuid.UUID  `json:"id"`
	ListingID *uuid.UUID `json:"listing_id,omitempty"`
	AssetID   string     `json:"asset_id"`
	BuyerID   string     `json:"buyer_id"`
	SellerID  string     `json:"seller_id"`
	Price     int64      `json:"price"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewOrder returns a pending order for a settled listing
func NewOrder(listingID uuid.UUID, assetID, buyerID, sellerID string, price int64) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:        uuid.New(),
		ListingID: &listingID,
		AssetID:   assetID,
		BuyerID:   buyerID,
		SellerID:  sellerID,
		Price:     price,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TransitionTo moves the order to next or returns ErrInvalidTransition
func (o *Order) TransitionTo(next Status) error {
	if !o.Status.CanTransitionTo(next) {
		return ErrInvalidTransition{OrderID: o.ID, From: o.Status, To: next}
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return nil
}
