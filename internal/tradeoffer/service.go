package tradeoffer

import (
	"context"
	"log/slog"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/profile"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

// Listed items are CS2 assets in the default inventory context
const (
	DefaultAppID     = 730
	DefaultContextID = "2"
)

// TradeRequest asks for an offer from a seller to the owner of a trade url
type TradeRequest struct {
	SellerSteamID string
	BuyerTradeURL string
	Item          Item
	CorrelationID string
}

// Service resolves sessions and receiving addresses, then sends the offer
type Service struct {
	profiles profile.Repository
	sessions profile.SessionRepository
	sender   Sender
	logger   *slog.Logger
}

// NewService creates a trade-offer Service
func NewService(profiles profile.Repository, sessions profile.SessionRepository, sender Sender, logger *slog.Logger) *Service {
	return &Service{
		profiles: profiles,
		sessions: sessions,
		sender:   sender,
		logger:   logger,
	}
}

// CreateTrade sends one offer moving req.Item from the seller to the trade url owner
func (s *Service) CreateTrade(ctx context.Context, req *TradeRequest) (string, error) {
	if req.SellerSteamID == "" || req.BuyerTradeURL == "" || req.Item.AssetID == "" {
		return "", shared.NewInvalidRequest("seller steam id, buyer trade url and item asset id are required")
	}

	session, err := s.sessions.GetBySteamID(ctx, req.SellerSteamID)
	if err != nil {
		return "", err
	}

	receiver, err := ParseTradeURL(req.BuyerTradeURL)
	if err != nil {
		return "", err
	}

	item := req.Item
	if item.AppID == 0 {
		item.AppID = DefaultAppID
	}
	if item.ContextID == "" {
		item.ContextID = DefaultContextID
	}

	logger := s.logger
	if req.CorrelationID != "" {
		logger = s.logger.With("correlation_id", req.CorrelationID)
	}
	logger.Debug("Sending trade offer", "seller_id", req.SellerSteamID, "asset_id", item.AssetID)

	return s.sender.Send(ctx, Offer{
		Session:  session,
		Receiver: receiver,
		Items:    []Item{item},
	})
}

// CreateOffer looks up the buyer's trade url and sends the listed asset to them
func (s *Service) CreateOffer(ctx context.Context, req handoff.Request, correlationID string) (*handoff.Result, error) {
	if req.SellerID == "" || req.BuyerID == "" || req.AssetID == "" {
		return nil, shared.NewInvalidRequest("seller id, buyer id and asset id are required")
	}

	buyer, err := s.profiles.GetBySteamID(ctx, req.BuyerID)
	if err != nil {
		return nil, err
	}
	if buyer.TradeURL == "" {
		return nil, shared.NewInvalidRequest("buyer has not set a trade url")
	}

	offerID, err := s.CreateTrade(ctx, &TradeRequest{
		SellerSteamID: req.SellerID,
		BuyerTradeURL: buyer.TradeURL,
		Item:          Item{AssetID: req.AssetID},
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}

	return &handoff.Result{TradeOfferID: offerID}, nil
}
