package components

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/listing"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/outbox"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) GetOrCreate(ctx context.Context, steamID string) (*account.Account, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepo) LockForUpdate(ctx context.Context, steamID string) (*account.Account, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepo) UpdateBalance(ctx context.Context, acc *account.Account, expectedVersion int) error {
	args := m.Called(ctx, acc, expectedVersion)
	return args.Error(0)
}

func (m *MockAccountRepo) AppendTransaction(ctx context.Context, txn *account.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockAccountRepo) ListTransactions(ctx context.Context, steamID string) ([]*account.Transaction, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Transaction), args.Error(1)
}

func (m *MockAccountRepo) WithTx(tx pgx.Tx) account.Repository {
	args := m.Called(tx)
	return args.Get(0).(account.Repository)
}

type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) Create(ctx context.Context, l *listing.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepo) GetActiveByAssetID(ctx context.Context, assetID string) (*listing.Listing, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepo) LockLatestByAssetID(ctx context.Context, assetID string) (*listing.Listing, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepo) UpdatePrice(ctx context.Context, l *listing.Listing, expectedVersion int) error {
	args := m.Called(ctx, l, expectedVersion)
	return args.Error(0)
}

func (m *MockListingRepo) Unpublish(ctx context.Context, l *listing.Listing, expectedVersion int) error {
	args := m.Called(ctx, l, expectedVersion)
	return args.Error(0)
}

func (m *MockListingRepo) DeleteActive(ctx context.Context, assetID string) error {
	args := m.Called(ctx, assetID)
	return args.Error(0)
}

func (m *MockListingRepo) ListActiveByOwner(ctx context.Context, ownerID string) ([]*listing.Listing, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listing.Listing), args.Error(1)
}

func (m *MockListingRepo) ListActive(ctx context.Context) ([]*listing.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listing.Listing), args.Error(1)
}

func (m *MockListingRepo) WithTx(tx pgx.Tx) listing.Repository {
	args := m.Called(tx)
	return args.Get(0).(listing.Repository)
}

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepo) CompareAndSetStatus(ctx context.Context, o *order.Order, from order.Status) error {
	args := m.Called(ctx, o, from)
	return args.Error(0)
}

func (m *MockOrderRepo) ListByParticipant(ctx context.Context, steamID string) ([]*order.Order, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepo) WithTx(tx pgx.Tx) order.Repository {
	args := m.Called(tx)
	return args.Get(0).(order.Repository)
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	args := m.Called(tx)
	return args.Get(0).(outbox.Repository)
}

type MockFailureRepo struct {
	mock.Mock
}

func (m *MockFailureRepo) Create(ctx context.Context, f *handoff.Failure) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFailureRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*handoff.Failure, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*handoff.Failure), args.Error(1)
}

type MockOrderEventPublisher struct {
	mock.Mock
}

func (m *MockOrderEventPublisher) PublishOrderEvent(ctx context.Context, e *order.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockOrderEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// inlineSubmitter runs tasks on the calling goroutine
type inlineSubmitter struct {
	err error
}

func (s *inlineSubmitter) Submit(task func()) error {
	if s.err != nil {
		return s.err
	}
	task()
	return nil
}

// deferredSubmitter holds tasks until runAll
type deferredSubmitter struct {
	tasks []func()
}

func (s *deferredSubmitter) Submit(task func()) error {
	s.tasks = append(s.tasks, task)
	return nil
}

func (s *deferredSubmitter) runAll() {
	for _, task := range s.tasks {
		task()
	}
}
