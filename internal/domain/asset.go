package domain

import (
	"fmt"
	"strings"
)

// AssetID is the price-feed identifier of a crypto asset (e.g. "ethereum").
type AssetID string

// TokenSymbol is the ticker shown to the user (e.g. "ETH").
type TokenSymbol string

const (
	TokenCELO TokenSymbol = "CELO"
	TokenBNB  TokenSymbol = "BNB"
	TokenETH  TokenSymbol = "ETH"
	TokenTON  TokenSymbol = "TON"
)

// USDReferenceID is the pseudo asset queried to get usd→fiat rates.
const USDReferenceID AssetID = "usd"

// Tokens lists the tokens the cashout form offers, in display order.
var Tokens = []TokenSymbol{TokenCELO, TokenBNB, TokenETH, TokenTON}

var tokenAssets = map[TokenSymbol]AssetID{
	TokenCELO: "celo",
	TokenBNB:  "binancecoin",
	TokenETH:  "ethereum",
	TokenTON:  "toncoin",
}

// AssetForToken returns the feed id for a token symbol.
func AssetForToken(symbol TokenSymbol) (AssetID, bool) {
	id, ok := tokenAssets[symbol]
	return id, ok
}

// ParseAsset accepts either a token symbol ("ETH") or a feed id ("ethereum"),
// case-insensitively.
func ParseAsset(raw string) (AssetID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrUnknownAsset)
	}
	if id, ok := tokenAssets[TokenSymbol(strings.ToUpper(s))]; ok {
		return id, nil
	}
	lower := AssetID(strings.ToLower(s))
	for _, id := range tokenAssets {
		if id == lower {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAsset, raw)
}
