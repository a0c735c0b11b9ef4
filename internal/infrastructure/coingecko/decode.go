package coingecko

import (
	"github.com/LavaJover/shvark-cashout-service/internal/domain"
	"github.com/tidwall/gjson"
)

// decodeSimplePrice walks {id: {currency: number}} and keeps only the ids and
// currencies that were asked for. Anything of the wrong shape is skipped.
func decodeSimplePrice(body []byte, req domain.PriceRequest) domain.PriceTable {
	wantID := make(map[string]domain.AssetID, len(req.IDs))
	for _, id := range req.IDs {
		wantID[string(id)] = id
	}
	wantCurrency := make(map[string]domain.CurrencyCode, len(req.VsCurrencies))
	for _, cur := range req.VsCurrencies {
		wantCurrency[string(cur)] = cur
	}

	table := make(domain.PriceTable)
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return table
	}
	root.ForEach(func(key, value gjson.Result) bool {
		id, ok := wantID[key.String()]
		if !ok || !value.IsObject() {
			return true
		}
		value.ForEach(func(curKey, price gjson.Result) bool {
			cur, ok := wantCurrency[curKey.String()]
			if !ok || price.Type != gjson.Number {
				return true
			}
			if table[id] == nil {
				table[id] = make(map[domain.CurrencyCode]float64)
			}
			table[id][cur] = price.Float()
			return true
		})
		return true
	})
	return table
}
