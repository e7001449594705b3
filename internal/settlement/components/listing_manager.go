package components

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/listing"
	"github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
)

type ListingManagerImpl struct {
	listingRepo listing.Repository
	logger      *slog.Logger
}

func NewListingManager(listingRepo listing.Repository, logger *slog.Logger) service.ListingManager {
	return &ListingManagerImpl{
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// LockForSale locks the newest listing of the asset so a concurrent buyer
// waits here and then sees it unpublished
func (m *ListingManagerImpl) LockForSale(ctx context.Context, tx pgx.Tx, req *service.BuyRequest) (*listing.Listing, error) {
	l, err := m.listingRepo.WithTx(tx).LockLatestByAssetID(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}

	if err := l.CheckSale(req.SellerID, req.Price); err != nil {
		m.logger.Warn("Listing cannot be sold",
			"asset_id", req.AssetID,
			"published", l.Published,
			"correlation_id", req.CorrelationID,
			"error", err,
		)
		return nil, err
	}

	return l, nil
}

// MarkSold unpublishes the listing, keeping the record
func (m *ListingManagerImpl) MarkSold(ctx context.Context, tx pgx.Tx, l *listing.Listing) error {
	expectedVersion := l.Version
	l.Unpublish()

	if err := m.listingRepo.WithTx(tx).Unpublish(ctx, l, expectedVersion); err != nil {
		return err
	}

	m.logger.Debug("Listing unpublished", "asset_id", l.AssetID, "listing_id", l.ID.String())
	return nil
}
