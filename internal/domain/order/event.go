package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names an order change published on the order event stream
type EventType string

const (
	EventSettled   EventType = "order.settled"
	EventConfirmed EventType = "order.confirmed"
	EventCompleted EventType = "order.completed"
	EventCanceled  EventType = "order.canceled"
)

// Event is the message published after an order is created or changes state
type Event struct {
	EventID       uuid.UUID `json:"event_id" bson:"event_id"`
	Type          EventType `json:"type" bson:"type"`
	Order         Order     `json:"order" bson:"order"`
	CorrelationID string    `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at" bson:"occurred_at"`
}

// NewEvent snapshots o into a new event of type t
func NewEvent(t EventType, o *Order, correlationID string) *Event {
	return &Event{
		EventID:       uuid.New(),
		Type:          t,
		Order:         *o,
		CorrelationID: correlationID,
		OccurredAt:    time.Now().UTC(),
	}
}

// EventFor maps a reached status to its event type
func EventFor(s Status) EventType {
	switch s {
	case StatusWaitingConfirmation:
		return EventConfirmed
	case StatusCompleted:
		return EventCompleted
	case StatusCanceled:
		return EventCanceled
	default:
		return EventSettled
	}
}

// EventRepository stores consumed order events
type EventRepository interface {
	// Save stores the event; saving an already stored event id is a no-op
	Save(ctx context.Context, e *Event) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*Event, error)
}
