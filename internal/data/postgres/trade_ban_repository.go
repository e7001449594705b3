package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/profile"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/persistence"
)

// TradeBanRepository implements the profile.TradeBanRepository interface for PostgreSQL
type TradeBanRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTradeBanRepository creates a new PostgreSQL trade ban repository
func NewTradeBanRepository(logger *slog.Logger, db *persistence.PostgresDB) profile.TradeBanRepository {
	return &TradeBanRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// SaveIfAbsent stores item unless its asset is already recorded
func (r *TradeBanRepository) SaveIfAbsent(ctx context.Context, item *profile.TradeBannedItem) (bool, error) {
	query := `
		INSERT INTO trade_banned_items (asset_id, steam_id, market_hash_name, tradable, trade_restricted, unban_at, icon_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (asset_id) DO NOTHING
	`

	result, err := r.querier.Exec(ctx, query,
		item.AssetID,
		item.SteamID,
		item.MarketHashName,
		item.Tradable,
		item.TradeRestricted,
		item.UnbanAt,
		item.IconURL,
		item.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save trade banned item", "asset_id", item.AssetID, "error", err)
		return false, fmt.Errorf("failed to save trade banned item: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// ListBySteamID returns the recorded trade-banned items of steamID, soonest unban first
func (r *TradeBanRepository) ListBySteamID(ctx context.Context, steamID string) ([]*profile.TradeBannedItem, error) {
	query := `
		SELECT asset_id, steam_id, market_hash_name, tradable, trade_restricted, unban_at, icon_url, created_at
		FROM trade_banned_items
		WHERE steam_id = $1
		ORDER BY unban_at ASC
	`

	rows, err := r.querier.Query(ctx, query, steamID)
	if err != nil {
		r.logger.Error("Failed to list trade banned items", "steam_id", steamID, "error", err)
		return nil, fmt.Errorf("failed to list trade banned items: %w", err)
	}
	defer rows.Close()

	items := make([]*profile.TradeBannedItem, 0)
	for rows.Next() {
		var item profile.TradeBannedItem
		if err := rows.Scan(
			&item.AssetID,
			&item.SteamID,
			&item.MarketHashName,
			&item.Tradable,
			&item.TradeRestricted,
			&item.UnbanAt,
			&item.IconURL,
			&item.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan trade banned item", "error", err)
			return nil, fmt.Errorf("failed to scan trade banned item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over trade banned items: %w", err)
	}

	return items, nil
}
