package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/LavaJover/shvark-cashout-service/internal/domain"
)

var errTransport = errors.New("connection reset by peer")

// fakeFeed answers the direct lookup with live and the usd→fiat lookup with usd.
type fakeFeed struct {
	mu    sync.Mutex
	calls []domain.PriceRequest

	live    domain.PriceTable
	liveErr error
	usd     domain.PriceTable
	usdErr  error

	// onCall runs before every lookup is answered.
	onCall func()
}

func (f *fakeFeed) SimplePrice(_ context.Context, req domain.PriceRequest) (domain.PriceTable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.onCall != nil {
		f.onCall()
	}

	if len(req.IDs) == 1 && req.IDs[0] == domain.USDReferenceID {
		if f.usdErr != nil {
			return nil, f.usdErr
		}
		return f.usd, nil
	}
	if f.liveErr != nil {
		return nil, f.liveErr
	}
	return f.live, nil
}

func (f *fakeFeed) Ping(context.Context) error { return nil }

func (f *fakeFeed) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.QuoteEvent
	err    error
}

func (p *recordingPublisher) PublishQuoteEvent(_ context.Context, event domain.QuoteEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}
