package domain

// FallbackPriceTable holds coarse USD reference prices used when the live feed
// cannot produce a rate. It is immutable once built.
type FallbackPriceTable struct {
	prices map[AssetID]float64
}

// NewFallbackPriceTable copies prices, dropping entries that are not usable rates.
func NewFallbackPriceTable(prices map[AssetID]float64) FallbackPriceTable {
	copied := make(map[AssetID]float64, len(prices))
	for id, usd := range prices {
		if UsableRate(usd) {
			copied[id] = usd
		}
	}
	return FallbackPriceTable{prices: copied}
}

// DefaultFallbackPrices is the table compiled into the service.
func DefaultFallbackPrices() FallbackPriceTable {
	return NewFallbackPriceTable(map[AssetID]float64{
		"ethereum":    3200,
		"binancecoin": 600,
		"celo":        0.75,
		"toncoin":     5.5,
	})
}

// WithOverrides returns a new table with overrides applied on top of t.
func (t FallbackPriceTable) WithOverrides(overrides map[AssetID]float64) FallbackPriceTable {
	merged := make(map[AssetID]float64, len(t.prices)+len(overrides))
	for id, usd := range t.prices {
		merged[id] = usd
	}
	for id, usd := range overrides {
		merged[id] = usd
	}
	return NewFallbackPriceTable(merged)
}

func (t FallbackPriceTable) Lookup(asset AssetID) (float64, bool) {
	usd, ok := t.prices[asset]
	return usd, ok
}

func (t FallbackPriceTable) Len() int {
	return len(t.prices)
}
