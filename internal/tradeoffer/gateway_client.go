package tradeoffer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/starmarket-sakvta/starmarket.api/internal/config"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type createOfferBody struct {
	OrderID  string `json:"orderId"`
	SellerID string `json:"sellerId"`
	BuyerID  string `json:"buyerId"`
	AssetID  string `json:"assetId"`
}

type createOfferEnvelope struct {
	Data struct {
		TradeOfferID string `json:"trade_offer_id"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GatewayClient requests hand-offs from the create_offer endpoint
type GatewayClient struct {
	client         *resty.Client
	createOfferURL string
	logger         *slog.Logger
}

// NewGatewayClient creates a GatewayClient from the hand-off configuration
func NewGatewayClient(logger *slog.Logger, cfg *config.HandoffConfig) *GatewayClient {
	return newGatewayClient(logger, resty.New().SetTimeout(cfg.Timeout), cfg.CreateOfferURL)
}

func newGatewayClient(logger *slog.Logger, client *resty.Client, createOfferURL string) *GatewayClient {
	return &GatewayClient{
		client:         client,
		createOfferURL: createOfferURL,
		logger:         logger,
	}
}

// RequestHandoff posts the order parties and asset and returns the created offer id
func (g *GatewayClient) RequestHandoff(ctx context.Context, req handoff.Request) (*handoff.Result, error) {
	var envelope createOfferEnvelope

	r := g.client.R().
		SetContext(ctx).
		SetBody(createOfferBody{
			OrderID:  req.OrderID.String(),
			SellerID: req.SellerID,
			BuyerID:  req.BuyerID,
			AssetID:  req.AssetID,
		}).
		SetResult(&envelope).
		SetError(&envelope)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(r.Header))

	resp, err := r.Post(g.createOfferURL)
	if err != nil {
		return nil, handoff.ErrGatewayFailure{Operation: "create offer", Err: err}
	}

	if resp.IsError() {
		g.logger.Warn("Create offer rejected",
			"order_id", req.OrderID.String(),
			"status", resp.StatusCode(),
			"body", resp.String(),
		)
		return nil, handoff.ErrGatewayFailure{
			Operation: "create offer",
			Err:       fmt.Errorf("status %d", resp.StatusCode()),
		}
	}

	if envelope.Data.TradeOfferID == "" {
		g.logger.Warn("Create offer returned no trade offer id",
			"order_id", req.OrderID.String(),
			"status", resp.StatusCode(),
		)
		return nil, handoff.ErrGatewayFailure{
			Operation: "create offer",
			Err:       errors.New("missing trade offer id"),
		}
	}

	return &handoff.Result{TradeOfferID: envelope.Data.TradeOfferID}, nil
}
