package handler

import (
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
)

// BuyRequest represents a request to buy a published item
type BuyRequest struct {
	BuyerID  string `json:"buyerId" binding:"required"`
	SellerID string `json:"sellerId" binding:"required"`
	ItemID   string `json:"itemId" binding:"required"`
	Price    int64  `json:"price" binding:"required,gt=0"`
}

// BuyResponse reports both balances after a settlement
type BuyResponse struct {
	Message       string       `json:"message"`
	BuyerBalance  int64        `json:"buyerBalance"`
	SellerBalance int64        `json:"sellerBalance"`
	Order         *order.Order `json:"order"`
}

// FundsRequest represents a deposit or withdrawal
type FundsRequest struct {
	SteamID string `json:"steamId" binding:"required"`
	Amount  int64  `json:"amount" binding:"required,gt=0"`
}

// FundsResponse reports the balance after a deposit or withdrawal
type FundsResponse struct {
	Message       string `json:"message"`
	Balance       int64  `json:"balance"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// PublishItemRequest represents a request to put an item on the market
type PublishItemRequest struct {
	SteamID  string `json:"steamId" binding:"required"`
	AssetID  string `json:"assetId" binding:"required"`
	Name     string `json:"name" binding:"required"`
	ImageURL string `json:"imageUrl" binding:"required"`
	Price    int64  `json:"price" binding:"required,gt=0"`
}

// ChangePriceRequest represents a new price for a published item
type ChangePriceRequest struct {
	Price int64 `json:"price" binding:"required,gt=0"`
}

// ConfirmResponse reports the confirmed order and the hand-off attempt
type ConfirmResponse struct {
	Message string          `json:"message"`
	Order   *order.Order    `json:"order"`
	Handoff handoff.Outcome `json:"handoff"`
}

// UpdateProfileRequest carries a partial profile update; absent fields stay unchanged
type UpdateProfileRequest struct {
	SteamID     string  `json:"steamId" binding:"required"`
	TradeURL    *string `json:"tradeUrl"`
	APIKey      *string `json:"apiKey"`
	Email       *string `json:"email"`
	BankAccount *string `json:"bankAccount"`
}

// SteamSessionRequest carries the web cookies a seller delegates
type SteamSessionRequest struct {
	SteamID          string `json:"steam_id" binding:"required"`
	SessionID        string `json:"session_id" binding:"required"`
	SteamLoginSecure string `json:"steam_login_secure" binding:"required"`
}

// TradeItem identifies one asset in a trade offer
type TradeItem struct {
	AppID     int    `json:"appid"`
	ContextID string `json:"contextid"`
	AssetID   string `json:"assetid" binding:"required"`
}

// CreateTradeRequest asks for a trade offer from a seller to a trade url
type CreateTradeRequest struct {
	SellerSteamID string    `json:"seller_steam_id" binding:"required"`
	BuyerTradeURL string    `json:"buyer_trade_url" binding:"required"`
	Item          TradeItem `json:"item" binding:"required"`
}

// CreateOfferRequest is the hand-off call made for a confirmed order
type CreateOfferRequest struct {
	SellerID string `json:"sellerId" binding:"required"`
	BuyerID  string `json:"buyerId" binding:"required"`
	AssetID  string `json:"assetId" binding:"required"`
	OrderID  string `json:"orderId" binding:"omitempty,uuid"`
}

// TradeOfferResponse identifies the created trade offer
type TradeOfferResponse struct {
	TradeOfferID string `json:"trade_offer_id"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1"`
}
