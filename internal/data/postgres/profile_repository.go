package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/profile"
	"github.com/starmarket-sakvta/starmarket.api/internal/platform/persistence"
)

const profileColumns = `steam_id, trade_url, api_key, email, bank_account, created_at, updated_at`

// ProfileRepository implements the profile.Repository interface for PostgreSQL
type ProfileRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(logger *slog.Logger, db *persistence.PostgresDB) profile.Repository {
	return &ProfileRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetBySteamID retrieves a profile
func (r *ProfileRepository) GetBySteamID(ctx context.Context, steamID string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE steam_id = $1`

	var p profile.Profile
	err := r.querier.QueryRow(ctx, query, steamID).Scan(
		&p.SteamID,
		&p.TradeURL,
		&p.APIKey,
		&p.Email,
		&p.BankAccount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound{SteamID: steamID}
		}
		r.logger.Error("Failed to get profile", "steam_id", steamID, "error", err)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

// Upsert applies the non-nil fields of u, creating the profile on first update.
// A nil field binds NULL, and COALESCE keeps the stored value.
func (r *ProfileRepository) Upsert(ctx context.Context, u profile.Update) (*profile.Profile, error) {
	query := `
		INSERT INTO profiles (steam_id, trade_url, api_key, email, bank_account, created_at, updated_at)
		VALUES ($1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''), NOW(), NOW())
		ON CONFLICT (steam_id) DO UPDATE SET
			trade_url = COALESCE($2, profiles.trade_url),
			api_key = COALESCE($3, profiles.api_key),
			email = COALESCE($4, profiles.email),
			bank_account = COALESCE($5, profiles.bank_account),
			updated_at = NOW()
		RETURNING ` + profileColumns

	var p profile.Profile
	err := r.querier.QueryRow(ctx, query, u.SteamID, u.TradeURL, u.APIKey, u.Email, u.BankAccount).Scan(
		&p.SteamID,
		&p.TradeURL,
		&p.APIKey,
		&p.Email,
		&p.BankAccount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert profile", "steam_id", u.SteamID, "error", err)
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return &p, nil
}

// SessionRepository implements the profile.SessionRepository interface for PostgreSQL
type SessionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewSessionRepository creates a new PostgreSQL steam session repository
func NewSessionRepository(logger *slog.Logger, db *persistence.PostgresDB) profile.SessionRepository {
	return &SessionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Save stores s, replacing any session previously linked for the same user
func (r *SessionRepository) Save(ctx context.Context, s *profile.SteamSession) error {
	query := `
		INSERT INTO steam_sessions (steam_id, session_id, steam_login_secure, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (steam_id) DO UPDATE SET
			session_id = EXCLUDED.session_id,
			steam_login_secure = EXCLUDED.steam_login_secure,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.querier.Exec(ctx, query, s.SteamID, s.SessionID, s.SteamLoginSecure, s.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to save steam session", "steam_id", s.SteamID, "error", err)
		return fmt.Errorf("failed to save steam session: %w", err)
	}

	return nil
}

// GetBySteamID retrieves the session linked by steamID
func (r *SessionRepository) GetBySteamID(ctx context.Context, steamID string) (*profile.SteamSession, error) {
	query := `SELECT steam_id, session_id, steam_login_secure, updated_at FROM steam_sessions WHERE steam_id = $1`

	var s profile.SteamSession
	err := r.querier.QueryRow(ctx, query, steamID).Scan(
		&s.SteamID,
		&s.SessionID,
		&s.SteamLoginSecure,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrSessionNotFound{SteamID: steamID}
		}
		r.logger.Error("Failed to get steam session", "steam_id", steamID, "error", err)
		return nil, fmt.Errorf("failed to get steam session: %w", err)
	}

	return &s, nil
}
