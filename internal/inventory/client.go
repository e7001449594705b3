package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
)

// Fetcher loads the raw inventory document of one user
type Fetcher interface {
	Fetch(ctx context.Context, steamID string) (json.RawMessage, error)
}

// SteamClient reads CS2 inventories from the Steam community endpoint
type SteamClient struct {
	client  *resty.Client
	baseURL string
	logger  *slog.Logger
}

// NewSteamClient creates a SteamClient rooted at baseURL
func NewSteamClient(logger *slog.Logger, client *resty.Client, baseURL string) *SteamClient {
	return &SteamClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Fetch returns the inventory document for steamID as the provider sent it
func (c *SteamClient) Fetch(ctx context.Context, steamID string) (json.RawMessage, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"l":     "english",
			"count": "5000",
		}).
		Get(c.baseURL + "/" + url.PathEscape(steamID) + "/730/2")
	if err != nil {
		c.logger.Error("Inventory request failed", "steam_id", steamID, "error", err)
		return nil, handoff.ErrGatewayFailure{Operation: "fetch inventory", Err: err}
	}

	if resp.IsError() {
		c.logger.Warn("Inventory request rejected", "steam_id", steamID, "status", resp.StatusCode())
		return nil, handoff.ErrGatewayFailure{
			Operation: "fetch inventory",
			Err:       fmt.Errorf("status %d", resp.StatusCode()),
		}
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, handoff.ErrGatewayFailure{Operation: "fetch inventory", Err: fmt.Errorf("response is not json")}
	}

	return json.RawMessage(body), nil
}
