package listing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// ErrInvalidPrice is returned for zero or negative prices
var ErrInvalidPrice = shared.InvalidRequestError{Reason: "price must be positive"}

// Repository defines listing persistence operations
type Repository interface {
	// Create inserts a published listing; ErrAlreadyPublished if the asset is already on the market
	Create(ctx context.Context, l *Listing) error
	GetActiveByAssetID(ctx context.Context, assetID string) (*Listing, error)

	// LockLatestByAssetID locks the newest listing of the asset, published or not
	LockLatestByAssetID(ctx context.Context, assetID string) (*Listing, error)

	UpdatePrice(ctx context.Context, l *Listing, expectedVersion int) error
	Unpublish(ctx context.Context, l *Listing, expectedVersion int) error
	DeleteActive(ctx context.Context, assetID string) error
	ListActiveByOwner(ctx context.Context, ownerID string) ([]*Listing, error)
	ListActive(ctx context.Context) ([]*Listing, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrListingNotFound indicates there is no listing for the asset
type ErrListingNotFound struct {
	AssetID string
}

func (e ErrListingNotFound) Error() string {
	return "item not found: " + e.AssetID
}

// Is matches shared.ErrNotFound and any ErrListingNotFound
func (e ErrListingNotFound) Is(target error) bool {
	if target == shared.ErrNotFound {
		return true
	}
	_, ok := target.(ErrListingNotFound)
	return ok
}

// ErrAlreadyPublished indicates the asset already has an active listing
type ErrAlreadyPublished struct {
	AssetID string
}

func (e ErrAlreadyPublished) Error() string {
	return "item is already published: " + e.AssetID
}

// Is matches shared.ErrConflict
func (e ErrAlreadyPublished) Is(target error) bool {
	if target == shared.ErrConflict {
		return true
	}
	_, ok := target.(ErrAlreadyPublished)
	return ok
}

// ErrAlreadySold indicates the listing was unpublished by an earlier sale
type ErrAlreadySold struct {
	AssetID string
}

func (e ErrAlreadySold) Error() string {
	return "item is no longer on sale: " + e.AssetID
}

// Is matches shared.ErrConflict
func (e ErrAlreadySold) Is(target error) bool {
	if target == shared.ErrConflict {
		return true
	}
	_, ok := target.(ErrAlreadySold)
	return ok
}

// ErrSellerMismatch indicates the buy request names a seller who does not own the listing
type ErrSellerMismatch struct {
	AssetID  string
	SellerID string
}

func (e ErrSellerMismatch) Error() string {
	return fmt.Sprintf("item %s is not listed by %s", e.AssetID, e.SellerID)
}

// Is matches shared.ErrConflict
func (e ErrSellerMismatch) Is(target error) bool {
	if target == shared.ErrConflict {
		return true
	}
	_, ok := target.(ErrSellerMismatch)
	return ok
}

// ErrPriceMismatch indicates the buyer offered a stale price
type ErrPriceMismatch struct {
	AssetID string
	Listed  int64
	Offered int64
}

func (e ErrPriceMismatch) Error() string {
	return fmt.Sprintf("price of item %s changed: listed %d, offered %d", e.AssetID, e.Listed, e.Offered)
}

// Is matches shared.ErrConflict
func (e ErrPriceMismatch) Is(target error) bool {
	if target == shared.ErrConflict {
		return true
	}
	_, ok := target.(ErrPriceMismatch)
	return ok
}

// ErrConcurrentModification indicates optimistic lock failure on a listing
type ErrConcurrentModification struct {
	AssetID string
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for item: " + e.AssetID
}

// Is matches shared.ErrConflict
func (e ErrConcurrentModification) Is(target error) bool {
	if target == shared.ErrConflict {
		return true
	}
	_, ok := target.(ErrConcurrentModification)
	return ok
}
