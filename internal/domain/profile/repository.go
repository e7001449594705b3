package profile

import (
	"context"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// Repository defines profile persistence operations
type Repository interface {
	GetBySteamID(ctx context.Context, steamID string) (*Profile, error)
	// Upsert applies u to the stored profile, creating an empty one first if needed
	Upsert(ctx context.Context, u Update) (*Profile, error)
}

// SessionRepository stores delegated Steam web sessions
type SessionRepository interface {
	Save(ctx context.Context, s *SteamSession) error
	GetBySteamID(ctx context.Context, steamID string) (*SteamSession, error)
}

// TradeBanRepository stores trade-banned inventory items
type TradeBanRepository interface {
	// SaveIfAbsent stores item unless its asset id is already recorded; reports whether it was stored
	SaveIfAbsent(ctx context.Context, item *TradeBannedItem) (bool, error)
	ListBySteamID(ctx context.Context, steamID string) ([]*TradeBannedItem, error)
}

// ErrProfileNotFound indicates missing profile
type ErrProfileNotFound struct {
	SteamID string
}

func (e ErrProfileNotFound) Error() string {
	return "user not found: " + e.SteamID
}

// Is matches shared.ErrNotFound
func (e ErrProfileNotFound) Is(target error) bool {
	if target == shared.ErrNotFound {
		return true
	}
	_, ok := target.(ErrProfileNotFound)
	return ok
}

// ErrSessionNotFound indicates the seller never linked a Steam session
type ErrSessionNotFound struct {
	SteamID string
}

func (e ErrSessionNotFound) Error() string {
	return "steam session not found for seller: " + e.SteamID
}

// Is matches shared.ErrNotFound
func (e ErrSessionNotFound) Is(target error) bool {
	if target == shared.ErrNotFound {
		return true
	}
	_, ok := target.(ErrSessionNotFound)
	return ok
}
