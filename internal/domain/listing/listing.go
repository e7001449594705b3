package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// Listing is one external asset offered for sale
type Listing struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   string    `json:"owner_id"`
	AssetID   string    `json:"asset_id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	Price     int64     `json:"price"` // Stored in minor units
	Published bool      `json:"published"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewListing validates the publish input and returns a published listing
func NewListing(ownerID, assetID, name, imageURL string, price int64) (*Listing, error) {
	switch {
	case ownerID == "":
		return nil, shared.NewInvalidRequest("owner steam id is required")
	case assetID == "":
		return nil, shared.NewInvalidRequest("asset id is required")
	case name == "":
		return nil, shared.NewInvalidRequest("name is required")
	case imageURL == "":
		return nil, shared.NewInvalidRequest("image url is required")
	case price <= 0:
		return nil, ErrInvalidPrice
	}

	now := time.Now().UTC()
	return &Listing{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		AssetID:   assetID,
		Name:      name,
		ImageURL:  imageURL,
		Price:     price,
		Published: true,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ChangePrice sets a new positive price
func (l *Listing) ChangePrice(price int64) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	l.Price = price
	l.UpdatedAt = time.Now().UTC()
	l.Version++
	return nil
}

// CheckSale verifies the listing can be bought from sellerID at price
func (l *Listing) CheckSale(sellerID string, price int64) error {
	if !l.Published {
		return ErrAlreadySold{AssetID: l.AssetID}
	}
	if l.OwnerID != sellerID {
		return ErrSellerMismatch{AssetID: l.AssetID, SellerID: sellerID}
	}
	if l.Price != price {
		return ErrPriceMismatch{AssetID: l.AssetID, Listed: l.Price, Offered: price}
	}
	return nil
}

// Unpublish removes the listing from the market while keeping the record
func (l *Listing) Unpublish() {
	l.Published = false
	l.UpdatedAt = time.Now().UTC()
	l.Version++
}
