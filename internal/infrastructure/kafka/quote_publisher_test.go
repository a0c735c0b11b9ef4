package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-cashout-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePort struct {
	msgs   []domain.Message
	err    error
	closed bool
}

func (f *fakePort) Publish(_ context.Context, msgs ...domain.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func TestQuotePublisher_PublishQuoteEvent(t *testing.T) {
	port := &fakePort{}
	pub := NewQuotePublisher(port)

	at := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	err := pub.PublishQuoteEvent(context.Background(), domain.QuoteEvent{
		Asset:      "toncoin",
		Currency:   domain.GHS,
		Rate:       5.5,
		Source:     "static-fallback",
		ResolvedAt: at,
	})
	require.NoError(t, err)
	require.Len(t, port.msgs, 1)
	assert.Equal(t, []byte("toncoin"), port.msgs[0].Key)

	var body map[string]any
	require.NoError(t, json.Unmarshal(port.msgs[0].Value, &body))
	assert.Equal(t, map[string]any{
		"asset":       "toncoin",
		"currency":    "ghs",
		"rate":        5.5,
		"source":      "static-fallback",
		"resolved_at": "2026-05-04T10:30:00Z",
	}, body)

	require.NoError(t, pub.Close())
	assert.True(t, port.closed)
}

func TestQuotePublisher_PortError(t *testing.T) {
	boom := errors.New("leader not available")
	pub := NewQuotePublisher(&fakePort{err: boom})

	err := pub.PublishQuoteEvent(context.Background(), domain.QuoteEvent{Asset: "celo"})
	assert.ErrorIs(t, err, boom)
}

func TestNopQuotePublisher(t *testing.T) {
	var pub domain.QuoteEventPublisher = NopQuotePublisher{}
	assert.NoError(t, pub.PublishQuoteEvent(context.Background(), domain.QuoteEvent{}))
}
