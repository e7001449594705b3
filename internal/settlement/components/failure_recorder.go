package components

import (
	"context"
	"log/slog"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
)

type FailureRecorderImpl struct {
	failureRepo handoff.FailureRepository
	logger      *slog.Logger
}

func NewFailureRecorder(failureRepo handoff.FailureRepository, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		failureRepo: failureRepo,
		logger:      logger,
	}
}

// RecordHandoffFailure stores why the hand-off of req did not go through
func (r *FailureRecorderImpl) RecordHandoffFailure(ctx context.Context, req handoff.Request, reason, correlationID string) error {
	logger := r.logger
	if correlationID != "" {
		logger = r.logger.With("correlation_id", correlationID)
	}

	failure := handoff.NewFailure(req, reason, correlationID)
	if err := r.failureRepo.Create(ctx, failure); err != nil {
		logger.Error("Failed to store hand-off failure", "order_id", req.OrderID.String(), "error", err)
		return err
	}

	logger.Info("Hand-off failure recorded", "order_id", req.OrderID.String(), "failure_id", failure.ID.String())
	return nil
}
