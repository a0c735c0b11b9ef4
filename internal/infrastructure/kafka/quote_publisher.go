package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LavaJover/shvark-cashout-service/internal/domain"
)

const DefaultDegradedTopic = "quote-degraded"

// QuotePublisher emits degraded-quote events keyed by asset.
type QuotePublisher struct {
	port domain.PublisherPort
}

func NewQuotePublisher(port domain.PublisherPort) *QuotePublisher {
	return &QuotePublisher{port: port}
}

func (p *QuotePublisher) PublishQuoteEvent(ctx context.Context, event domain.QuoteEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal quote event: %w", err)
	}
	return p.port.Publish(ctx, domain.Message{Key: []byte(event.Asset), Value: v})
}

func (p *QuotePublisher) Close() error {
	return p.port.Close()
}

// NopQuotePublisher is used when kafka is disabled.
type NopQuotePublisher struct{}

func (NopQuotePublisher) PublishQuoteEvent(context.Context, domain.QuoteEvent) error { return nil }

func (NopQuotePublisher) Close() error { return nil }
