// Package tradeoffer talks to the provider's trade-offer endpoints. It sends
// offers on behalf of sellers with their delegated web session, and provides
// the HTTP gateway the order lifecycle uses to request a hand-off.
package tradeoffer

import (
	"regexp"

	"github.com/starmarket-sakvta/starmarket.api/internal/domain/shared"
)

var (
	partnerPattern = regexp.MustCompile(`partner=(\d+)`)
	tokenPattern   = regexp.MustCompile(`token=([\w-]+)`)
)

// TradeURL is the receiving address parsed from a buyer's trade link
type TradeURL struct {
	Partner string
	Token   string
}

// ParseTradeURL extracts the partner id and access token from raw
func ParseTradeURL(raw string) (TradeURL, error) {
	partner := partnerPattern.FindStringSubmatch(raw)
	token := tokenPattern.FindStringSubmatch(raw)
	if partner == nil || token == nil {
		return TradeURL{}, shared.NewInvalidRequest("invalid trade url")
	}

	return TradeURL{Partner: partner[1], Token: token[1]}, nil
}
