package domain

import (
	"context"
	"time"
)

// PriceRequest asks the feed for every id denominated in every currency.
// MaxAge is the staleness a cached response may have and still be served.
type PriceRequest struct {
	IDs          []AssetID
	VsCurrencies []CurrencyCode
	MaxAge       time.Duration
}

type PriceFeed interface {
	SimplePrice(ctx context.Context, req PriceRequest) (PriceTable, error)
	Ping(ctx context.Context) error
}

// PriceTable is a decoded feed response. Any level may be missing.
type PriceTable map[AssetID]map[CurrencyCode]float64

// Rate returns the usable rate for asset in currency, if any.
func (t PriceTable) Rate(asset AssetID, currency CurrencyCode) (float64, bool) {
	if t == nil {
		return 0, false
	}
	byCurrency, ok := t[asset]
	if !ok || byCurrency == nil {
		return 0, false
	}
	v, ok := byCurrency[currency]
	if !ok || !UsableRate(v) {
		return 0, false
	}
	return v, true
}
