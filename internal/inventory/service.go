package inventory

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/profile"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

type asset struct {
	AssetID    string `json:"assetid"`
	ClassID    string `json:"classid"`
	InstanceID string `json:"instanceid"`
}

type description struct {
	ClassID        string `json:"classid"`
	InstanceID     string `json:"instanceid"`
	Tradable       int    `json:"tradable"`
	MarketHashName string `json:"market_hash_name"`
	IconURL        string `json:"icon_url"`
}

type document struct {
	Assets       []asset           `json:"assets"`
	Descriptions []json.RawMessage `json:"descriptions"`
}

// Snapshot is the result of a trade-ban scan
type Snapshot struct {
	Descriptions []json.RawMessage          `json:"steam_inventory"`
	TradeBanned  []*profile.TradeBannedItem `json:"stored_trade_banned_items"`
	NewlyStored  int                        `json:"newly_stored"`
}

// Service serves inventories through the cache and records trade bans
type Service struct {
	fetcher   Fetcher
	cache     *Cache
	tradeBans profile.TradeBanRepository
	cooldown  time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewService creates an inventory Service
func NewService(fetcher Fetcher, cache *Cache, tradeBans profile.TradeBanRepository, cooldown time.Duration, logger *slog.Logger) *Service {
	return &Service{
		fetcher:   fetcher,
		cache:     cache,
		tradeBans: tradeBans,
		cooldown:  cooldown,
		now:       time.Now,
		logger:    logger,
	}
}

// Get returns the inventory of steamID, from the cache when it is fresh
func (s *Service) Get(ctx context.Context, steamID string) (json.RawMessage, error) {
	if steamID == "" {
		return nil, shared.NewInvalidRequest("steam id is required")
	}

	if data, ok := s.cache.Get(steamID); ok {
		s.logger.Debug("Inventory cache hit", "steam_id", steamID)
		return data, nil
	}

	data, err := s.fetcher.Fetch(ctx, steamID)
	if err != nil {
		return nil, err
	}

	s.cache.Put(steamID, data)
	return data, nil
}

// Invalidate forgets the cached inventory of steamID
func (s *Service) Invalidate(steamID string) bool {
	return s.cache.Invalidate(steamID)
}

// ScanTradeBans fetches a fresh inventory and stores every non-tradable item not seen before
func (s *Service) ScanTradeBans(ctx context.Context, steamID string) (*Snapshot, error) {
	if steamID == "" {
		return nil, shared.NewInvalidRequest("steam id is required")
	}

	data, err := s.fetcher.Fetch(ctx, steamID)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil || len(doc.Assets) == 0 || len(doc.Descriptions) == 0 {
		return nil, shared.NewInvalidRequest("no inventory data found")
	}

	assets := make(map[[2]string]asset, len(doc.Assets))
	for _, a := range doc.Assets {
		key := [2]string{a.ClassID, a.InstanceID}
		if _, ok := assets[key]; !ok {
			assets[key] = a
		}
	}

	now := s.now().UTC()
	stored := 0
	for _, raw := range doc.Descriptions {
		var d description
		if err := json.Unmarshal(raw, &d); err != nil {
			s.logger.Warn("Skipping undecodable inventory description", "steam_id", steamID, "error", err)
			continue
		}
		if d.Tradable != 0 {
			continue
		}
		match, ok := assets[[2]string{d.ClassID, d.InstanceID}]
		if !ok {
			continue
		}

		saved, err := s.tradeBans.SaveIfAbsent(ctx, &profile.TradeBannedItem{
			AssetID:         match.AssetID,
			SteamID:         steamID,
			MarketHashName:  d.MarketHashName,
			Tradable:        false,
			TradeRestricted: true,
			UnbanAt:         now.Add(s.cooldown),
			IconURL:         d.IconURL,
			CreatedAt:       now,
		})
		if err != nil {
			return nil, err
		}
		if saved {
			stored++
		}
	}

	items, err := s.tradeBans.ListBySteamID(ctx, steamID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Trade-banned items scanned", "steam_id", steamID, "newly_stored", stored, "total", len(items))

	return &Snapshot{
		Descriptions: doc.Descriptions,
		TradeBanned:  items,
		NewlyStored:  stored,
	}, nil
}
