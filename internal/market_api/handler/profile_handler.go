package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/profile"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/middleware"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/service"
)

// ProfileHandler handles user settings and linked Steam sessions
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(logger *slog.Logger, profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// Get returns a profile, 404 if it was never saved
func (h *ProfileHandler) Get(c *gin.Context) {
	steamID := c.Param("steamId")

	p, err := h.profileService.Get(c.Request.Context(), steamID)
	if err != nil {
		respondFailure(c, h.logger, "Failed to get profile", err, "steam_id", steamID)
		return
	}

	RespondOK(c, p)
}

// Update applies a partial update
func (h *ProfileHandler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLogger(c, h.logger).Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.profileService.Update(c.Request.Context(), profile.Update{
		SteamID:     req.SteamID,
		TradeURL:    req.TradeURL,
		APIKey:      req.APIKey,
		Email:       req.Email,
		BankAccount: req.BankAccount,
	})
	if err != nil {
		respondFailure(c, h.logger, "Failed to update profile", err, "steam_id", req.SteamID)
		return
	}

	RespondOK(c, p)
}

// SaveSession stores the seller's Steam web session
func (h *ProfileHandler) SaveSession(c *gin.Context) {
	var req SteamSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session := &profile.SteamSession{
		SteamID:          req.SteamID,
		SessionID:        req.SessionID,
		SteamLoginSecure: req.SteamLoginSecure,
	}
	if err := h.profileService.SaveSession(c.Request.Context(), session); err != nil {
		respondFailure(c, h.logger, "Failed to save steam session", err, "steam_id", req.SteamID)
		return
	}

	RespondOK(c, session)
}
