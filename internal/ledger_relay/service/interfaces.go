// Package service records consumed order events.
package service

import (
	"context"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
)

// EventRecorder stores one consumed order event
type EventRecorder interface {
	Record(ctx context.Context, e *order.Event) error
}

// TaskRunner runs a task on a bounded pool and waits for its result
type TaskRunner interface {
	Do(ctx context.Context, task func(ctx context.Context) error) error
}
