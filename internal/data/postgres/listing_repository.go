package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/listing"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/persistence"
)

const listingColumns = `id, owner_id, asset_id, name, image_url, price, published, version, created_at, updated_at`

// uniqueViolation is the SQLSTATE PostgreSQL reports for a unique index conflict
const uniqueViolation = "23505"

// ListingRepository implements the listing.Repository interface for PostgreSQL
type ListingRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewListingRepository creates a new PostgreSQL listing repository
func NewListingRepository(logger *slog.Logger, db *persistence.PostgresDB) listing.Repository {
	return &ListingRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *ListingRepository) WithTx(tx pgx.Tx) listing.Repository {
	return &ListingRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create inserts a published listing. The partial unique index on published
// asset ids turns a second publish of the same asset into ErrAlreadyPublished.
func (r *ListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		l.ID,
		l.OwnerID,
		l.AssetID,
		l.Name,
		l.ImageURL,
		l.Price,
		l.Published,
		l.Version,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return listing.ErrAlreadyPublished{AssetID: l.AssetID}
		}
		r.logger.Error("Failed to create listing", "asset_id", l.AssetID, "error", err)
		return fmt.Errorf("failed to create listing: %w", err)
	}

	return nil
}

// GetActiveByAssetID returns the published listing of the asset
func (r *ListingRepository) GetActiveByAssetID(ctx context.Context, assetID string) (*listing.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE asset_id = $1 AND published`

	l, err := scanListing(r.querier.QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, listing.ErrListingNotFound{AssetID: assetID}
		}
		r.logger.Error("Failed to get listing", "asset_id", assetID, "error", err)
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return l, nil
}

// LockLatestByAssetID locks the most recent listing of the asset, sold or not.
// Must be called inside a transaction.
func (r *ListingRepository) LockLatestByAssetID(ctx context.Context, assetID string) (*listing.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE asset_id = $1
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`

	l, err := scanListing(r.querier.QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, listing.ErrListingNotFound{AssetID: assetID}
		}
		r.logger.Error("Failed to lock listing for update", "asset_id", assetID, "error", err)
		return nil, fmt.Errorf("failed to lock listing for update: %w", err)
	}

	return l, nil
}

// UpdatePrice persists l.Price if the stored version is expectedVersion
func (r *ListingRepository) UpdatePrice(ctx context.Context, l *listing.Listing, expectedVersion int) error {
	query := `
		UPDATE listings
		SET price = $1, version = $2, updated_at = $3
		WHERE id = $4 AND version = $5
	`

	result, err := r.querier.Exec(ctx, query, l.Price, l.Version, l.UpdatedAt, l.ID, expectedVersion)
	if err != nil {
		r.logger.Error("Failed to update listing price", "asset_id", l.AssetID, "error", err)
		return fmt.Errorf("failed to update listing price: %w", err)
	}

	if result.RowsAffected() == 0 {
		return listing.ErrConcurrentModification{AssetID: l.AssetID}
	}

	return nil
}

// Unpublish takes the listing off the market, keeping the row for order history
func (r *ListingRepository) Unpublish(ctx context.Context, l *listing.Listing, expectedVersion int) error {
	query := `
		UPDATE listings
		SET published = FALSE, version = $1, updated_at = $2
		WHERE id = $3 AND version = $4
	`

	result, err := r.querier.Exec(ctx, query, l.Version, l.UpdatedAt, l.ID, expectedVersion)
	if err != nil {
		r.logger.Error("Failed to unpublish listing", "asset_id", l.AssetID, "error", err)
		return fmt.Errorf("failed to unpublish listing: %w", err)
	}

	if result.RowsAffected() == 0 {
		return listing.ErrConcurrentModification{AssetID: l.AssetID}
	}

	return nil
}

// DeleteActive removes the published listing of the asset
func (r *ListingRepository) DeleteActive(ctx context.Context, assetID string) error {
	query := `DELETE FROM listings WHERE asset_id = $1 AND published`

	result, err := r.querier.Exec(ctx, query, assetID)
	if err != nil {
		r.logger.Error("Failed to delete listing", "asset_id", assetID, "error", err)
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	if result.RowsAffected() == 0 {
		return listing.ErrListingNotFound{AssetID: assetID}
	}

	return nil
}

// ListActiveByOwner returns the published listings of ownerID, newest first
func (r *ListingRepository) ListActiveByOwner(ctx context.Context, ownerID string) ([]*listing.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_id = $1 AND published ORDER BY created_at DESC`
	return r.list(ctx, query, ownerID)
}

// ListActive returns every published listing, newest first
func (r *ListingRepository) ListActive(ctx context.Context) ([]*listing.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE published ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *ListingRepository) list(ctx context.Context, query string, args ...interface{}) ([]*listing.Listing, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list listings", "error", err)
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	listings := make([]*listing.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			r.logger.Error("Failed to scan listing", "error", err)
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over listings", "error", err)
		return nil, fmt.Errorf("error iterating over listings: %w", err)
	}

	return listings, nil
}

func scanListing(row pgx.Row) (*listing.Listing, error) {
	var l listing.Listing
	err := row.Scan(
		&l.ID,
		&l.OwnerID,
		&l.AssetID,
		&l.Name,
		&l.ImageURL,
		&l.Price,
		&l.Published,
		&l.Version,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
