package service

import (
	"context"
	"log/slog"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
)

// WorkerPoolEventRecorder runs every Record of the base recorder on the worker pool
type WorkerPoolEventRecorder struct {
	baseRecorder EventRecorder
	pool         TaskRunner
	logger       *slog.Logger
}

func NewWorkerPoolEventRecorder(baseRecorder EventRecorder, pool TaskRunner, logger *slog.Logger) *WorkerPoolEventRecorder {
	return &WorkerPoolEventRecorder{
		baseRecorder: baseRecorder,
		pool:         pool,
		logger:       logger,
	}
}

// Record submits the event to the pool and waits until it is stored or ctx ends
func (s *WorkerPoolEventRecorder) Record(ctx context.Context, e *order.Event) error {
	logger := s.logger
	if e.CorrelationID != "" {
		logger = s.logger.With("correlation_id", e.CorrelationID)
	}

	// The worker gets its own copy so the caller may reuse e
	eventCopy := *e

	err := s.pool.Do(ctx, func(ctx context.Context) error {
		return s.baseRecorder.Record(ctx, &eventCopy)
	})
	if err != nil {
		logger.Error("Order event was not recorded",
			"event_id", e.EventID.String(),
			"order_id", e.Order.ID.String(),
			"error", err,
		)
		return err
	}

	return nil
}
