package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// maxTransitionAttempts bounds re-reads when a concurrent request moved the order first
const maxTransitionAttempts = 3

type LifecycleServiceImpl struct {
	orderRepo       order.Repository
	gateway         HandoffGateway
	failures        FailureRecorder
	notifier        EventNotifier
	handoffFailures metric.Int64Counter
	logger          *slog.Logger
}

func NewLifecycleService(
	orderRepo order.Repository,
	gateway HandoffGateway,
	failures FailureRecorder,
	notifier EventNotifier,
	logger *slog.Logger,
) LifecycleService {
	return &LifecycleServiceImpl{
		orderRepo:       orderRepo,
		gateway:         gateway,
		failures:        failures,
		notifier:        notifier,
		handoffFailures: newCounter(logger, "handoff.failures", "Failed hand-off requests"),
		logger:          logger,
	}
}

func (s *LifecycleServiceImpl) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *LifecycleServiceImpl) ListByParticipant(ctx context.Context, steamID string) ([]*order.Order, error) {
	if steamID == "" {
		return nil, shared.NewInvalidRequest("steam id is required")
	}
	return s.orderRepo.ListByParticipant(ctx, steamID)
}

// Confirm moves a pending order to waiting_confirmation and asks the gateway
// for the hand-off. A gateway failure is recorded and reported in the result;
// the order keeps its new status. Confirming an order that already passed
// this step changes nothing and makes no gateway call.
func (s *LifecycleServiceImpl) Confirm(ctx context.Context, req *TransitionRequest) (*ConfirmResult, error) {
	logger := s.requestLogger(req)

	o, changed, err := s.advance(ctx, req, order.StatusWaitingConfirmation, order.StatusWaitingConfirmation, order.StatusCompleted)
	if err != nil {
		return nil, err
	}

	result := &ConfirmResult{Order: o}
	if !changed {
		logger.Info("Order already confirmed, skipping hand-off", "order_id", o.ID.String(), "status", string(o.Status))
		return result, nil
	}

	hr := handoff.Request{
		OrderID:  o.ID,
		SellerID: o.SellerID,
		BuyerID:  o.BuyerID,
		AssetID:  o.AssetID,
	}

	result.Handoff.Requested = true
	offer, err := s.gateway.RequestHandoff(ctx, hr)
	if err != nil {
		logger.Error("Hand-off request failed, order stays waiting for confirmation",
			"order_id", o.ID.String(),
			"asset_id", o.AssetID,
			"error", err,
		)
		s.handoffFailures.Add(ctx, 1)
		result.Handoff.Error = err.Error()

		if recordErr := s.failures.RecordHandoffFailure(context.WithoutCancel(ctx), hr, err.Error(), req.CorrelationID); recordErr != nil {
			logger.Error("Failed to record hand-off failure", "order_id", o.ID.String(), "error", recordErr)
		}
		return result, nil
	}

	result.Handoff.TradeOfferID = offer.TradeOfferID
	logger.Info("Hand-off requested", "order_id", o.ID.String(), "trade_offer_id", offer.TradeOfferID)

	return result, nil
}

// Complete moves a confirmed order to completed; completing twice is a no-op
func (s *LifecycleServiceImpl) Complete(ctx context.Context, req *TransitionRequest) (*order.Order, error) {
	o, _, err := s.advance(ctx, req, order.StatusCompleted, order.StatusCompleted)
	return o, err
}

// Cancel moves a pending order to canceled; canceling twice is a no-op.
// Funds are not returned.
func (s *LifecycleServiceImpl) Cancel(ctx context.Context, req *TransitionRequest) (*order.Order, error) {
	o, changed, err := s.advance(ctx, req, order.StatusCanceled, order.StatusCanceled)
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}
	s.requestLogger(req).Warn("Order canceled without refund", "order_id", o.ID.String(), "buyer_id", o.BuyerID, "price", o.Price)
	return o, nil
}

// advance moves the order to target with a compare-and-set on its status.
// Orders already in one of the reached states are returned unchanged.
func (s *LifecycleServiceImpl) advance(ctx context.Context, req *TransitionRequest, target order.Status, reached ...order.Status) (*order.Order, bool, error) {
	logger := s.requestLogger(req)

	var lastErr error
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		o, err := s.orderRepo.GetByID(ctx, req.OrderID)
		if err != nil {
			return nil, false, err
		}

		if containsStatus(reached, o.Status) {
			return o, false, nil
		}

		from := o.Status
		if err := o.TransitionTo(target); err != nil {
			logger.Warn("Order transition rejected", "order_id", o.ID.String(), "from", string(from), "to", string(target))
			return nil, false, err
		}

		err = s.orderRepo.CompareAndSetStatus(ctx, o, from)
		if err == nil {
			logger.Info("Order status changed", "order_id", o.ID.String(), "from", string(from), "to", string(target))
			s.notifier.Notify(context.WithoutCancel(ctx), order.NewEvent(order.EventFor(o.Status), o, req.CorrelationID))
			return o, true, nil
		}

		if !errors.Is(err, order.ErrStatusChanged{}) {
			return nil, false, err
		}

		logger.Debug("Order changed concurrently, retrying", "order_id", req.OrderID.String(), "attempt", attempt)
		lastErr = err
	}

	return nil, false, lastErr
}

func (s *LifecycleServiceImpl) requestLogger(req *TransitionRequest) *slog.Logger {
	if req.CorrelationID != "" {
		return s.logger.With("correlation_id", req.CorrelationID)
	}
	return s.logger
}

func containsStatus(statuses []order.Status, s order.Status) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
