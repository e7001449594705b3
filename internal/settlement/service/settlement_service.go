package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/persistence"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/starmarket-sakvta/starmarket.api/internal/settlement"

type SettlementServiceImpl struct {
	db        persistence.TxExecutor
	validator RequestValidator
	accounts  AccountManager
	listings  ListingManager
	orders    OrderRecorder
	outbox    OutboxManager
	notifier  EventNotifier
	tracer    trace.Tracer
	attempts  metric.Int64Counter
	logger    *slog.Logger
}

func NewSettlementService(
	db persistence.TxExecutor,
	validator RequestValidator,
	accounts AccountManager,
	listings ListingManager,
	orders OrderRecorder,
	outbox OutboxManager,
	notifier EventNotifier,
	logger *slog.Logger,
) SettlementService {
	return &SettlementServiceImpl{
		db:        db,
		validator: validator,
		accounts:  accounts,
		listings:  listings,
		orders:    orders,
		outbox:    outbox,
		notifier:  notifier,
		tracer:    otel.Tracer(instrumentationName),
		attempts:  newCounter(logger, "settlement.attempts", "Settlement attempts by outcome"),
		logger:    logger,
	}
}

// Settle validates req, then debits the buyer, credits the seller, unpublishes
// the listing, records the order and stages the ledger entries in one
// transaction. The settled event is published after commit and never fails
// the call.
func (s *SettlementServiceImpl) Settle(ctx context.Context, req *BuyRequest) (result *Result, err error) {
	logger := s.logger
	if req.CorrelationID != "" {
		logger = s.logger.With("correlation_id", req.CorrelationID)
	}

	ctx, span := s.tracer.Start(ctx, "settlement.settle", trace.WithAttributes(
		attribute.String("asset_id", req.AssetID),
		attribute.String("buyer_id", req.BuyerID),
		attribute.String("seller_id", req.SellerID),
		attribute.Int64("price", req.Price),
	))
	defer func() {
		outcome := outcomeOf(err)
		s.attempts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
	}()

	if err := s.validator.ValidateBuy(req); err != nil {
		logger.Warn("Buy request rejected", "asset_id", req.AssetID, "error", err)
		return nil, err
	}

	logger.Info("Settling buy request",
		"asset_id", req.AssetID,
		"buyer_id", req.BuyerID,
		"seller_id", req.SellerID,
		"price", req.Price,
	)

	var (
		buyer, seller *account.Account
		created       *order.Order
	)

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		l, err := s.listings.LockForSale(ctx, tx, req)
		if err != nil {
			return err
		}

		buyer, seller, err = s.accounts.LockPair(ctx, tx, req.BuyerID, req.SellerID)
		if err != nil {
			return err
		}

		created = order.NewOrder(l.ID, req.AssetID, req.BuyerID, req.SellerID, req.Price)

		txns, err := s.accounts.Transfer(ctx, tx, buyer, seller, req.Price, created.ID)
		if err != nil {
			return err
		}

		if err := s.listings.MarkSold(ctx, tx, l); err != nil {
			return err
		}

		if err := s.orders.Record(ctx, tx, created); err != nil {
			return err
		}

		return s.outbox.Stage(ctx, tx, shared.OutboxEventSettlement, created.ID.String(), req.CorrelationID, txns...)
	})
	if err != nil {
		logger.Warn("Settlement aborted", "asset_id", req.AssetID, "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.String("order_id", created.ID.String()))
	logger.Info("Settlement committed",
		"order_id", created.ID.String(),
		"asset_id", req.AssetID,
		"buyer_balance", buyer.Balance,
		"seller_balance", seller.Balance,
	)

	s.notifier.Notify(context.WithoutCancel(ctx), order.NewEvent(order.EventSettled, created, req.CorrelationID))

	return &Result{
		BuyerBalance:  buyer.Balance,
		SellerBalance: seller.Balance,
		Order:         created,
	}, nil
}

// outcomeOf names the error kind for metrics and span status
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, shared.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, shared.ErrNotFound):
		return "not_found"
	case errors.Is(err, shared.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, shared.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

func newCounter(logger *slog.Logger, name, description string) metric.Int64Counter {
	counter, err := otel.Meter(instrumentationName).Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		logger.Warn("Failed to create counter, using no-op", "counter", name, "error", err)
		return noop.Int64Counter{}
	}
	return counter
}
