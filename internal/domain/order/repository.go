package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// Repository defines order persistence operations
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// CompareAndSetStatus moves the order from one status to another only if
	// it is still in from; returns ErrStatusChanged otherwise
	CompareAndSetStatus(ctx context.Context, o *Order, from Status) error

	ListByParticipant(ctx context.Context, steamID string) ([]*Order, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrOrderNotFound indicates missing order
type ErrOrderNotFound struct {
	OrderID uuid.UUID
}

func (e ErrOrderNotFound) Error() string {
	return "order not found: " + e.OrderID.String()
}

// Is matches shared.ErrNotFound and any ErrOrderNotFound
func (e ErrOrderNotFound) Is(target error) bool {
	if target == shared.ErrNotFound {
		return true
	}
	_, ok := target.(ErrOrderNotFound)
	return ok
}

// ErrInvalidTransition indicates a move the state machine does not allow
type ErrInvalidTransition struct {
	OrderID uuid.UUID
	From    Status
	To      Status
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("order %s cannot move from %s to %s", e.OrderID, e.From, e.To)
}

// Is matches shared.ErrConflict
func (e ErrInvalidTransition) Is(target error) bool {
	if target == shared.ErrConflict {
		return true
	}
	_, ok := target.(ErrInvalidTransition)
	return ok
}

// ErrStatusChanged indicates the stored status differed from the expected one
type ErrStatusChanged struct {
	OrderID  uuid.UUID
	Expected Status
}

func (e ErrStatusChanged) Error() string {
	return fmt.Sprintf("order %s is no longer %s", e.OrderID, e.Expected)
}

// Is matches shared.ErrConflict
func (e ErrStatusChanged) Is(target error) bool {
	if target == shared.ErrConflict {
		return true
	}
	_, ok := target.(ErrStatusChanged)
	return ok
}
