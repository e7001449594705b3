package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// Repository defines account and history persistence operations
type Repository interface {
	// GetOrCreate returns the account, inserting an empty one if absent
	GetOrCreate(ctx context.Context, steamID string) (*Account, error)

	// LockForUpdate acquires a row lock for the rest of the transaction
	LockForUpdate(ctx context.Context, steamID string) (*Account, error)

	// UpdateBalance writes the new balance if the stored version still matches
	UpdateBalance(ctx context.Context, acc *Account, expectedVersion int) error

	AppendTransaction(ctx context.Context, txn *Transaction) error
	ListTransactions(ctx context.Context, steamID string) ([]*Transaction, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	SteamID string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.SteamID
}

// Is matches shared.ErrNotFound, and any ErrAccountNotFound when the target SteamID is empty
func (e ErrAccountNotFound) Is(target error) bool {
	if target == shared.ErrNotFound {
		return true
	}
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.SteamID == "" || t.SteamID == e.SteamID
}

// ErrInsufficientFunds indicates a debit larger than the balance
type ErrInsufficientFunds struct {
	SteamID   string
	Balance   int64
	Requested int64
}

func (e ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient balance for %s: have %d, need %d", e.SteamID, e.Balance, e.Requested)
}

// Is matches shared.ErrInsufficientFunds and any ErrInsufficientFunds
func (e ErrInsufficientFunds) Is(target error) bool {
	if target == shared.ErrInsufficientFunds {
		return true
	}
	_, ok := target.(ErrInsufficientFunds)
	return ok
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	SteamID string
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for account: " + e.SteamID
}

// Is matches shared.ErrConflict
func (e ErrConcurrentModification) Is(target error) bool {
	if target == shared.ErrConflict {
		return true
	}
	_, ok := target.(ErrConcurrentModification)
	return ok
}
