package account

import (
	"time"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// ErrInvalidAmount is returned for zero or negative amounts
var ErrInvalidAmount = shared.InvalidRequestError{Reason: "amount must be positive"}

// Account is the marketplace cash balance of one Steam identity
type Account struct {
	SteamID   string    `json:"steam_id"`
	Balance   int64     `json:"balance"` // Stored in minor units
	Version   int       `json:"version"` // For optimistic locking
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccount returns an empty account for steamID
func NewAccount(steamID string) (*Account, error) {
	if steamID == "" {
		return nil, shared.NewInvalidRequest("steam id is required")
	}

	now := time.Now().UTC()
	return &Account{
		SteamID:   steamID,
		Balance:   0,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Credit adds amount to the balance
func (a *Account) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	a.Balance += amount
	a.UpdatedAt = time.Now().UTC()
	a.Version++
	return nil
}

// Debit subtracts amount from the balance, never letting it go negative
func (a *Account) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if !a.CanDebit(amount) {
		return ErrInsufficientFunds{SteamID: a.SteamID, Balance: a.Balance, Requested: amount}
	}

	a.Balance -= amount
	a.UpdatedAt = time.Now().UTC()
	a.Version++
	return nil
}

// CanDebit checks if the account holds at least amount
func (a *Account) CanDebit(amount int64) bool {
	return a.Balance >= amount
}
