// Package service holds the settlement engine, the ledger operations and the
// order lifecycle manager. Each service orchestrates the small components
// declared here; the concrete components live in the components package.
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/ledger"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/listing"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// BuyRequest asks to buy the listed asset from seller at price
type BuyRequest struct {
	BuyerID       string
	SellerID      string
	AssetID       string
	Price         int64
	CorrelationID string
}

// Result is the state after a committed settlement
type Result struct {
	BuyerBalance  int64
	SellerBalance int64
	Order         *order.Order
}

// FundsRequest moves cash into or out of one account
type FundsRequest struct {
	SteamID       string
	Amount        int64
	CorrelationID string
}

// FundsResult is the account after a deposit or withdrawal and the entry it appended
type FundsResult struct {
	Account     *account.Account
	Transaction *account.Transaction
}

// TransitionRequest asks to advance one order
type TransitionRequest struct {
	OrderID       uuid.UUID
	CorrelationID string
}

// ConfirmResult is the confirmed order and what happened to its hand-off request
type ConfirmResult struct {
	Order   *order.Order
	Handoff handoff.Outcome
}

// SettlementService turns a buy request into one atomic funds transfer
type SettlementService interface {
	Settle(ctx context.Context, req *BuyRequest) (*Result, error)
}

// LedgerService exposes balances, deposits and withdrawals
type LedgerService interface {
	GetBalance(ctx context.Context, steamID string) (*account.Statement, error)
	Deposit(ctx context.Context, req *FundsRequest) (*FundsResult, error)
	RequestWithdrawal(ctx context.Context, req *FundsRequest) (*FundsResult, error)
	AuditTrail(ctx context.Context, steamID string, page, perPage int) ([]*ledger.Entry, int64, error)
}

// LifecycleService advances orders after settlement
type LifecycleService interface {
	Confirm(ctx context.Context, req *TransitionRequest) (*ConfirmResult, error)
	Complete(ctx context.Context, req *TransitionRequest) (*order.Order, error)
	Cancel(ctx context.Context, req *TransitionRequest) (*order.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*order.Order, error)
	ListByParticipant(ctx context.Context, steamID string) ([]*order.Order, error)
}

// RequestValidator rejects malformed requests before any transaction opens
type RequestValidator interface {
	ValidateBuy(req *BuyRequest) error
	ValidateFunds(req *FundsRequest) error
}

// AccountManager performs balance mutations inside a caller-owned transaction
type AccountManager interface {
	// LockPair locks both accounts in a fixed order and returns them as (buyer, seller)
	LockPair(ctx context.Context, tx pgx.Tx, buyerID, sellerID string) (*account.Account, *account.Account, error)
	// Transfer moves amount from buyer to seller and appends the purchase and sale entries
	Transfer(ctx context.Context, tx pgx.Tx, buyer, seller *account.Account, amount int64, orderID uuid.UUID) ([]*account.Transaction, error)
	Deposit(ctx context.Context, tx pgx.Tx, steamID string, amount int64) (*account.Account, *account.Transaction, error)
	Withdraw(ctx context.Context, tx pgx.Tx, steamID string, amount int64) (*account.Account, *account.Transaction, error)
}

// ListingManager guards the listing side of a sale
type ListingManager interface {
	// LockForSale locks the asset's listing and checks it can be sold as requested
	LockForSale(ctx context.Context, tx pgx.Tx, req *BuyRequest) (*listing.Listing, error)
	MarkSold(ctx context.Context, tx pgx.Tx, l *listing.Listing) error
}

// OrderRecorder stores the order created by a settlement
type OrderRecorder interface {
	Record(ctx context.Context, tx pgx.Tx, o *order.Order) error
}

// OutboxManager stages appended transactions for the ledger relay
type OutboxManager interface {
	Stage(ctx context.Context, tx pgx.Tx, eventType shared.OutboxEventType, aggregateID, correlationID string, txns ...*account.Transaction) error
}

// EventNotifier publishes order events without blocking or failing the caller
type EventNotifier interface {
	Notify(ctx context.Context, e *order.Event)
}

// HandoffGateway asks the provider side to move an asset to the buyer
type HandoffGateway interface {
	RequestHandoff(ctx context.Context, req handoff.Request) (*handoff.Result, error)
}

// FailureRecorder keeps failed hand-offs for follow-up
type FailureRecorder interface {
	RecordHandoffFailure(ctx context.Context, req handoff.Request, reason, correlationID string) error
}
