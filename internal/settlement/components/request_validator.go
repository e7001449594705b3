package components

import (
	"log/slog"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
	"github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
)

type RequestValidatorImpl struct {
	logger *slog.Logger
}

func NewRequestValidator(logger *slog.Logger) service.RequestValidator {
	return &RequestValidatorImpl{
		logger: logger,
	}
}

// ValidateBuy checks required fields, a positive price and rejects self-trade
func (v *RequestValidatorImpl) ValidateBuy(req *service.BuyRequest) error {
	var err error
	switch {
	case req.BuyerID == "":
		err = shared.NewInvalidRequest("buyer id is required")
	case req.SellerID == "":
		err = shared.NewInvalidRequest("seller id is required")
	case req.AssetID == "":
		err = shared.NewInvalidRequest("item id is required")
	case req.Price <= 0:
		err = shared.NewInvalidRequest("price must be positive")
	case req.BuyerID == req.SellerID:
		err = shared.NewInvalidRequest("buyer and seller must differ")
	}

	if err != nil {
		v.logger.Debug("Invalid buy request", "asset_id", req.AssetID, "correlation_id", req.CorrelationID, "error", err)
	}
	return err
}

// ValidateFunds checks a deposit or withdrawal request
func (v *RequestValidatorImpl) ValidateFunds(req *service.FundsRequest) error {
	var err error
	switch {
	case req.SteamID == "":
		err = shared.NewInvalidRequest("steam id is required")
	case req.Amount <= 0:
		err = shared.NewInvalidRequest("amount must be positive")
	}

	if err != nil {
		v.logger.Debug("Invalid funds request", "steam_id", req.SteamID, "correlation_id", req.CorrelationID, "error", err)
	}
	return err
}
