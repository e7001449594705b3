package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/profile"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// ProfileServiceImpl implements the ProfileService interface
type ProfileServiceImpl struct {
	profileRepo profile.Repository
	sessionRepo profile.SessionRepository
	logger      *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo profile.Repository, sessionRepo profile.SessionRepository, logger *slog.Logger) ProfileService {
	return &ProfileServiceImpl{
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Get returns the profile of steamID, ErrProfileNotFound if it was never saved
func (s *ProfileServiceImpl) Get(ctx context.Context, steamID string) (*profile.Profile, error) {
	if steamID == "" {
		return nil, shared.NewInvalidRequest("steam id is required")
	}
	return s.profileRepo.GetBySteamID(ctx, steamID)
}

// Update applies the provided fields, creating the profile on first use
func (s *ProfileServiceImpl) Update(ctx context.Context, u profile.Update) (*profile.Profile, error) {
	if u.SteamID == "" {
		return nil, shared.NewInvalidRequest("steam id is required")
	}
	return s.profileRepo.Upsert(ctx, u)
}

// SaveSession stores the seller's delegated web session, replacing any earlier one
func (s *ProfileServiceImpl) SaveSession(ctx context.Context, session *profile.SteamSession) error {
	if session.SteamID == "" || session.SessionID == "" || session.SteamLoginSecure == "" {
		return shared.NewInvalidRequest("steam_id, session_id and steam_login_secure are required")
	}

	session.UpdatedAt = time.Now().UTC()
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return err
	}

	s.logger.Info("Steam session saved", "steam_id", session.SteamID)
	return nil
}
