package service

import (
	"context"
	"encoding/json"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/listing"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/profile"
	"github.com/starmarket-sakvta/starmarket.api/internal/inventory"
	"github.com/starmarket-sakvta/starmarket.api/internal/tradeoffer"
)

// PublishRequest puts one asset on the market
type PublishRequest struct {
	OwnerID  string
	AssetID  string
	Name     string
	ImageURL string
	Price    int64
}

// ListingService defines the operations on the market catalog
type ListingService interface {
	// Publish lists the asset and makes sure its owner has an account to be paid into.
	// Returns ErrAlreadyPublished if the asset is already on sale.
	Publish(ctx context.Context, req *PublishRequest) (*listing.Listing, error)

	// ChangePrice reprices the published listing of assetID
	ChangePrice(ctx context.Context, assetID string, price int64) (*listing.Listing, error)

	// Remove hard-deletes the published listing of assetID
	Remove(ctx context.Context, assetID string) error

	ListMarket(ctx context.Context) ([]*listing.Listing, error)
	ListSelling(ctx context.Context, ownerID string) ([]*listing.Listing, error)
}

// ProfileService defines the operations on user settings and linked sessions
type ProfileService interface {
	Get(ctx context.Context, steamID string) (*profile.Profile, error)
	Update(ctx context.Context, u profile.Update) (*profile.Profile, error)
	SaveSession(ctx context.Context, s *profile.SteamSession) error
}

// TradeService sends trade offers
type TradeService interface {
	CreateTrade(ctx context.Context, req *tradeoffer.TradeRequest) (string, error)
	CreateOffer(ctx context.Context, req handoff.Request, correlationID string) (*handoff.Result, error)
}

// InventoryService reads inventories and tracks trade-banned items
type InventoryService interface {
	Get(ctx context.Context, steamID string) (json.RawMessage, error)
	Invalidate(steamID string) bool
	ScanTradeBans(ctx context.Context, steamID string) (*inventory.Snapshot, error)
}
