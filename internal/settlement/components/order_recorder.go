package components

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	"github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
)

type OrderRecorderImpl struct {
	orderRepo order.Repository
	logger    *slog.Logger
}

func NewOrderRecorder(orderRepo order.Repository, logger *slog.Logger) service.OrderRecorder {
	return &OrderRecorderImpl{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// Record inserts the pending order in tx
func (r *OrderRecorderImpl) Record(ctx context.Context, tx pgx.Tx, o *order.Order) error {
	if err := r.orderRepo.WithTx(tx).Create(ctx, o); err != nil {
		return err
	}

	r.logger.Debug("Order recorded", "order_id", o.ID.String(), "asset_id", o.AssetID)
	return nil
}
