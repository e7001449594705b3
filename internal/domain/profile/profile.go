// Package profile holds the per-user data the marketplace keeps next to the
// ledger: contact and payout fields, the linked Steam web session, and items
// the provider currently refuses to trade.
package profile

import (
	"time"
)

// Profile holds user-editable marketplace settings
type Profile struct {
	SteamID     string    `json:"steam_id"`
	TradeURL    string    `json:"trade_url"`
	APIKey      string    `json:"api_key"`
	Email       string    `json:"email"`
	BankAccount string    `json:"bank_account"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Update carries the fields of a partial profile update; nil means unchanged
type Update struct {
	SteamID     string
	TradeURL    *string
	APIKey      *string
	Email       *string
	BankAccount *string
}

// Apply copies every provided field onto p
func (u Update) Apply(p *Profile) {
	if u.TradeURL != nil {
		p.TradeURL = *u.TradeURL
	}
	if u.APIKey != nil {
		p.APIKey = *u.APIKey
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.BankAccount != nil {
		p.BankAccount = *u.BankAccount
	}
	p.UpdatedAt = time.Now().UTC()
}

// SteamSession holds the web cookies a seller delegated for sending trade offers
type SteamSession struct {
	SteamID          string    `json:"steam_id"`
	SessionID        string    `json:"session_id"`
	SteamLoginSecure string    `json:"-"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TradeBannedItem is an inventory item the provider marked as not tradable
type TradeBannedItem struct {
	AssetID         string    `json:"asset_id"`
	SteamID         string    `json:"steam_id"`
	MarketHashName  string    `json:"market_hash_name"`
	Tradable        bool      `json:"tradable"`
	TradeRestricted bool      `json:"trade_restricted"`
	UnbanAt         time.Time `json:"unban_at"`
	IconURL         string    `json:"icon_url"`
	CreatedAt       time.Time `json:"created_at"`
}
