package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/ledger"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/listing"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// fakeTxExecutor runs fn with a nil tx and reports whether it committed
type fakeTxExecutor struct {
	mu        sync.Mutex
	calls     int
	commits   int
	commitErr error
}

func (f *fakeTxExecutor) ExecuteTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err := fn(nil); err != nil {
		return err
	}
	if f.commitErr != nil {
		return f.commitErr
	}

	f.mu.Lock()
	f.commits++
	f.mu.Unlock()
	return nil
}

type MockRequestValidator struct {
	mock.Mock
}

func (m *MockRequestValidator) ValidateBuy(req *BuyRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockRequestValidator) ValidateFunds(req *FundsRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

type MockAccountManager struct {
	mock.Mock
}

func (m *MockAccountManager) LockPair(ctx context.Context, tx pgx.Tx, buyerID, sellerID string) (*account.Account, *account.Account, error) {
	args := m.Called(ctx, tx, buyerID, sellerID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*account.Account), args.Get(1).(*account.Account), args.Error(2)
}

func (m *MockAccountManager) Transfer(ctx context.Context, tx pgx.Tx, buyer, seller *account.Account, amount int64, orderID uuid.UUID) ([]*account.Transaction, error) {
	args := m.Called(ctx, tx, buyer, seller, amount, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Transaction), args.Error(1)
}

func (m *MockAccountManager) Deposit(ctx context.Context, tx pgx.Tx, steamID string, amount int64) (*account.Account, *account.Transaction, error) {
	args := m.Called(ctx, tx, steamID, amount)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*account.Account), args.Get(1).(*account.Transaction), args.Error(2)
}

func (m *MockAccountManager) Withdraw(ctx context.Context, tx pgx.Tx, steamID string, amount int64) (*account.Account, *account.Transaction, error) {
	args := m.Called(ctx, tx, steamID, amount)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*account.Account), args.Get(1).(*account.Transaction), args.Error(2)
}

type MockListingManager struct {
	mock.Mock
}

func (m *MockListingManager) LockForSale(ctx context.Context, tx pgx.Tx, req *BuyRequest) (*listing.Listing, error) {
	args := m.Called(ctx, tx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingManager) MarkSold(ctx context.Context, tx pgx.Tx, l *listing.Listing) error {
	args := m.Called(ctx, tx, l)
	return args.Error(0)
}

type MockOrderRecorder struct {
	mock.Mock
}

func (m *MockOrderRecorder) Record(ctx context.Context, tx pgx.Tx, o *order.Order) error {
	args := m.Called(ctx, tx, o)
	return args.Error(0)
}

type MockOutboxManager struct {
	mock.Mock
}

func (m *MockOutboxManager) Stage(ctx context.Context, tx pgx.Tx, eventType shared.OutboxEventType, aggregateID, correlationID string, txns ...*account.Transaction) error {
	args := m.Called(ctx, tx, eventType, aggregateID, correlationID, txns)
	return args.Error(0)
}

type MockEventNotifier struct {
	mock.Mock
}

func (m *MockEventNotifier) Notify(ctx context.Context, e *order.Event) {
	m.Called(ctx, e)
}

type MockHandoffGateway struct {
	mock.Mock
}

func (m *MockHandoffGateway) RequestHandoff(ctx context.Context, req handoff.Request) (*handoff.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoff.Result), args.Error(1)
}

type MockFailureRecorder struct {
	mock.Mock
}

func (m *MockFailureRecorder) RecordHandoffFailure(ctx context.Context, req handoff.Request, reason, correlationID string) error {
	args := m.Called(ctx, req, reason, correlationID)
	return args.Error(0)
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
	// Hand out a copy so a transition in the service does not leak into later calls
	o := *args.Get(0).(*order.Order)
	return &o, args.Error(1)
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

type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Upsert(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*ledger.Entry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepo) GetBySteamID(ctx context.Context, steamID string, limit, offset int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, steamID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepo) CountBySteamID(ctx context.Context, steamID string) (int64, error) {
	args := m.Called(ctx, steamID)
	return args.Get(0).(int64), args.Error(1)
}
