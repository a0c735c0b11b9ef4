package domain

import (
	"context"
	"time"
)

// QuoteEvent is emitted when a quote was served from a degraded tier.
type QuoteEvent struct {
	Asset      AssetID      `json:"asset"`
	Currency   CurrencyCode `json:"currency"`
	Rate       float64      `json:"rate"`
	Source     string       `json:"source"`
	ResolvedAt time.Time    `json:"resolved_at"`
}

type QuoteEventPublisher interface {
	PublishQuoteEvent(ctx context.Context, event QuoteEvent) error
}
