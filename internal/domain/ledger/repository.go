package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages the audit copy of the ledger with pagination support
type Repository interface {
	// Upsert stores the entry; storing the same transaction id twice keeps one copy
	Upsert(ctx context.Context, entry *Entry) error
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*Entry, error)
	GetBySteamID(ctx context.Context, steamID string, limit, offset int) ([]*Entry, error)
	CountBySteamID(ctx context.Context, steamID string) (int64, error)
}

// ErrEntryNotFound indicates missing ledger entry
type ErrEntryNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "ledger entry not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	// A zero target matches any missing entry
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
