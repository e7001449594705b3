package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/persistence"
)

const orderColumns = `id, listing_id, asset_id, buyer_id, seller_id, price, status, created_at, updated_at`

// OrderRepository implements the order.Repository interface for PostgreSQL
type OrderRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewOrderRepository creates a new PostgreSQL order repository
func NewOrderRepository(logger *slog.Logger, db *persistence.PostgresDB) order.Repository {
	return &OrderRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *OrderRepository) WithTx(tx pgx.Tx) order.Repository {
	return &OrderRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create inserts a new order
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		o.ID,
		o.ListingID,
		o.AssetID,
		o.BuyerID,
		o.SellerID,
		o.Price,
		o.Status,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", "order_id", o.ID.String(), "error", err)
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound{OrderID: id}
		}
		r.logger.Error("Failed to get order", "order_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return o, nil
}

// CompareAndSetStatus writes o.Status only while the stored status is still from
func (r *OrderRepository) CompareAndSetStatus(ctx context.Context, o *order.Order, from order.Status) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.querier.Exec(ctx, query, o.Status, o.UpdatedAt, o.ID, from)
	if err != nil {
		r.logger.Error("Failed to update order status",
			"order_id", o.ID.String(),
			"from", string(from),
			"to", string(o.Status),
			"error", err,
		)
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return order.ErrStatusChanged{OrderID: o.ID, Expected: from}
	}

	return nil
}

// ListByParticipant returns orders where steamID is buyer or seller, newest first
func (r *OrderRepository) ListByParticipant(ctx context.Context, steamID string) ([]*order.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE buyer_id = $1 OR seller_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.querier.Query(ctx, query, steamID)
	if err != nil {
		r.logger.Error("Failed to list orders", "steam_id", steamID, "error", err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*order.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			r.logger.Error("Failed to scan order", "error", err)
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over orders", "error", err)
		return nil, fmt.Errorf("error iterating over orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID,
		&o.ListingID,
		&o.AssetID,
		&o.BuyerID,
		&o.SellerID,
		&o.Price,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
