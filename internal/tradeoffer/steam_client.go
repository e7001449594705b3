package tradeoffer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/starmarket-sakvta/starmarket.api/internal/config"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/profile"
)

const (
	steamOrigin  = "https://steamcommunity.com"
	steamReferer = "https://steamcommunity.com/tradeoffer/new/"
)

// Item is one asset placed in an offer
type Item struct {
	AppID     int    `json:"appid"`
	ContextID string `json:"contextid"`
	AssetID   string `json:"assetid"`
}

// Offer is everything needed to send one trade offer
type Offer struct {
	Session  *profile.SteamSession
	Receiver TradeURL
	Items    []Item
}

// Sender sends trade offers to the provider
type Sender interface {
	Send(ctx context.Context, offer Offer) (string, error)
}

type offerSide struct {
	Assets   []Item `json:"assets"`
	Currency []any  `json:"currency"`
	Ready    bool   `json:"ready"`
}

type tradeOfferPayload struct {
	NewVersion bool      `json:"newversion"`
	Version    int       `json:"version"`
	Me         offerSide `json:"me"`
	Them       offerSide `json:"them"`
}

type createParams struct {
	AccessToken string `json:"trade_offer_access_token"`
}

type sendResponse struct {
	TradeOfferID string `json:"tradeofferid"`
}

// SteamClient posts trade offers to the Steam community endpoint
type SteamClient struct {
	client  *resty.Client
	sendURL string
	message string
	logger  *slog.Logger
}

// NewSteamClient creates a SteamClient from the hand-off configuration
func NewSteamClient(logger *slog.Logger, cfg *config.HandoffConfig) *SteamClient {
	return newSteamClient(logger, resty.New().SetTimeout(cfg.Timeout), cfg.TradeOfferURL, cfg.TradeOfferMessage)
}

func newSteamClient(logger *slog.Logger, client *resty.Client, sendURL, message string) *SteamClient {
	return &SteamClient{
		client:  client,
		sendURL: sendURL,
		message: message,
		logger:  logger,
	}
}

// Send creates the offer with the seller's session and returns the provider's offer id
func (c *SteamClient) Send(ctx context.Context, offer Offer) (string, error) {
	payload, err := json.Marshal(tradeOfferPayload{
		NewVersion: true,
		Version:    2,
		Me:         offerSide{Assets: offer.Items, Currency: []any{}},
		Them:       offerSide{Assets: []Item{}, Currency: []any{}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal trade offer: %w", err)
	}
	params, err := json.Marshal(createParams{AccessToken: offer.Receiver.Token})
	if err != nil {
		return "", fmt.Errorf("failed to marshal trade offer params: %w", err)
	}

	loginSecure, err := url.QueryUnescape(offer.Session.SteamLoginSecure)
	if err != nil {
		loginSecure = offer.Session.SteamLoginSecure
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Referer", steamReferer).
		SetHeader("Origin", steamOrigin).
		SetHeader("Cookie", "sessionid="+offer.Session.SessionID+"; steamLoginSecure="+loginSecure+";").
		SetFormData(map[string]string{
			"sessionid":                 offer.Session.SessionID,
			"serverid":                  "1",
			"partner":                   offer.Receiver.Partner,
			"tradeoffermessage":         c.message,
			"json_tradeoffer":           string(payload),
			"trade_offer_create_params": string(params),
		}).
		Post(c.sendURL)
	if err != nil {
		c.logger.Error("Trade offer request failed", "seller_id", offer.Session.SteamID, "error", err)
		return "", handoff.ErrGatewayFailure{Operation: "send trade offer", Err: err}
	}

	body := resp.String()
	if resp.StatusCode() != 200 || !strings.Contains(body, "tradeofferid") {
		c.logger.Warn("Trade offer rejected",
			"seller_id", offer.Session.SteamID,
			"partner", offer.Receiver.Partner,
			"status", resp.StatusCode(),
		)
		return "", handoff.ErrGatewayFailure{
			Operation: "send trade offer",
			Err:       fmt.Errorf("status %d", resp.StatusCode()),
		}
	}

	var out sendResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		c.logger.Warn("Trade offer response not decodable", "error", err)
	}

	c.logger.Info("Trade offer sent",
		"seller_id", offer.Session.SteamID,
		"partner", offer.Receiver.Partner,
		"trade_offer_id", out.TradeOfferID,
	)
	return out.TradeOfferID, nil
}
