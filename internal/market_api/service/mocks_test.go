package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/listing"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/profile"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepository) GetActiveByAssetID(ctx context.Context, assetID string) (*listing.Listing, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) LockLatestByAssetID(ctx context.Context, assetID string) (*listing.Listing, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) UpdatePrice(ctx context.Context, l *listing.Listing, expectedVersion int) error {
	args := m.Called(ctx, l, expectedVersion)
	return args.Error(0)
}

func (m *MockListingRepository) Unpublish(ctx context.Context, l *listing.Listing, expectedVersion int) error {
	args := m.Called(ctx, l, expectedVersion)
	return args.Error(0)
}

func (m *MockListingRepository) DeleteActive(ctx context.Context, assetID string) error {
	args := m.Called(ctx, assetID)
	return args.Error(0)
}

func (m *MockListingRepository) ListActiveByOwner(ctx context.Context, ownerID string) ([]*listing.Listing, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) ListActive(ctx context.Context) ([]*listing.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) WithTx(tx pgx.Tx) listing.Repository {
	args := m.Called(tx)
	return args.Get(0).(listing.Repository)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetOrCreate(ctx context.Context, steamID string) (*account.Account, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) LockForUpdate(ctx context.Context, steamID string) (*account.Account, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, acc *account.Account, expectedVersion int) error {
	args := m.Called(ctx, acc, expectedVersion)
	return args.Error(0)
}

func (m *MockAccountRepository) AppendTransaction(ctx context.Context, txn *account.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockAccountRepository) ListTransactions(ctx context.Context, steamID string) ([]*account.Transaction, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Transaction), args.Error(1)
}

func (m *MockAccountRepository) WithTx(tx pgx.Tx) account.Repository {
	args := m.Called(tx)
	return args.Get(0).(account.Repository)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetBySteamID(ctx context.Context, steamID string) (*profile.Profile, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, u profile.Update) (*profile.Profile, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Save(ctx context.Context, s *profile.SteamSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) GetBySteamID(ctx context.Context, steamID string) (*profile.SteamSession, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.SteamSession), args.Error(1)
}
