package service

import (
	"context"
	"log/slog"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/listing"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// ListingServiceImpl implements the ListingService interface
type ListingServiceImpl struct {
	listingRepo listing.Repository
	accountRepo account.Repository
	logger      *slog.Logger
}

// NewListingService creates a new listing service
func NewListingService(listingRepo listing.Repository, accountRepo account.Repository, logger *slog.Logger) ListingService {
	return &ListingServiceImpl{
		listingRepo: listingRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Publish validates the listing, opens the owner's account and stores the listing
func (s *ListingServiceImpl) Publish(ctx context.Context, req *PublishRequest) (*listing.Listing, error) {
	l, err := listing.NewListing(req.OwnerID, req.AssetID, req.Name, req.ImageURL, req.Price)
	if err != nil {
		return nil, err
	}

	// Settlement locks both accounts and never creates one
	if _, err := s.accountRepo.GetOrCreate(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Create(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info("Listing published", "asset_id", l.AssetID, "owner_id", l.OwnerID, "price", l.Price)
	return l, nil
}

// ChangePrice loads the published listing and stores the new price if nobody changed it meanwhile
func (s *ListingServiceImpl) ChangePrice(ctx context.Context, assetID string, price int64) (*listing.Listing, error) {
	if assetID == "" {
		return nil, shared.NewInvalidRequest("asset id is required")
	}

	l, err := s.listingRepo.GetActiveByAssetID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	expectedVersion := l.Version
	if err := l.ChangePrice(price); err != nil {
		return nil, err
	}

	if err := s.listingRepo.UpdatePrice(ctx, l, expectedVersion); err != nil {
		return nil, err
	}

	return l, nil
}

// Remove deletes the published listing of assetID
func (s *ListingServiceImpl) Remove(ctx context.Context, assetID string) error {
	if assetID == "" {
		return shared.NewInvalidRequest("asset id is required")
	}
	return s.listingRepo.DeleteActive(ctx, assetID)
}

// ListMarket returns every published listing
func (s *ListingServiceImpl) ListMarket(ctx context.Context) ([]*listing.Listing, error) {
	return s.listingRepo.ListActive(ctx)
}

// ListSelling returns the published listings of ownerID
func (s *ListingServiceImpl) ListSelling(ctx context.Context, ownerID string) ([]*listing.Listing, error) {
	if ownerID == "" {
		return nil, shared.NewInvalidRequest("owner steam id is required")
	}
	return s.listingRepo.ListActiveByOwner(ctx, ownerID)
}
