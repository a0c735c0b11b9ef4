package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-cashout-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(feed domain.PriceFeed) *DefaultQuoteResolver {
	return NewDefaultQuoteResolver(feed, domain.DefaultFallbackPrices(), DefaultResolverConfig(), nil, nil)
}

func TestResolve_Direct(t *testing.T) {
	feed := &fakeFeed{live: domain.PriceTable{"ethereum": {domain.USD: 3200, domain.NGN: 4800000}}}

	q, err := newTestResolver(feed).Resolve(context.Background(), "ethereum", domain.NGN)
	require.NoError(t, err)
	assert.Equal(t, domain.Quote{Rate: 4800000, Provenance: domain.ProvenanceDirect}, q)

	require.Equal(t, 1, feed.callCount(), "a direct hit short-circuits every other lookup")
	req := feed.calls[0]
	assert.Equal(t, []domain.AssetID{"ethereum"}, req.IDs)
	assert.Equal(t, []domain.CurrencyCode{domain.USD, domain.NGN}, req.VsCurrencies)
	assert.Equal(t, 30*time.Second, req.MaxAge)
}

func TestResolve_DirectUSD(t *testing.T) {
	feed := &fakeFeed{live: domain.PriceTable{"celo": {domain.USD: 0.8}}}

	q, err := newTestResolver(feed).Resolve(context.Background(), "celo", domain.USD)
	require.NoError(t, err)
	assert.Equal(t, domain.Quote{Rate: 0.8, Provenance: domain.ProvenanceDirect}, q)
	assert.Equal(t, []domain.CurrencyCode{domain.USD}, feed.calls[0].VsCurrencies)
}

func TestResolve_USDCross(t *testing.T) {
	feed := &fakeFeed{
		live: domain.PriceTable{"ethereum": {domain.USD: 3200}},
		usd:  domain.PriceTable{domain.USDReferenceID: {domain.NGN: 1500}},
	}

	q, err := newTestResolver(feed).Resolve(context.Background(), "ethereum", domain.NGN)
	require.NoError(t, err)
	assert.Equal(t, domain.Quote{Rate: 4800000, Provenance: domain.ProvenanceUSDCross}, q)

	require.Equal(t, 2, feed.callCount())
	assert.Equal(t, []domain.AssetID{domain.USDReferenceID}, feed.calls[1].IDs)
	assert.Equal(t, []domain.CurrencyCode{domain.NGN}, feed.calls[1].VsCurrencies)
	assert.Equal(t, 30*time.Second, feed.calls[1].MaxAge)
}

func TestResolve_UnusableDirectRateFallsThrough(t *testing.T) {
	feed := &fakeFeed{
		live: domain.PriceTable{"ethereum": {domain.USD: 3200, domain.NGN: 0}},
		usd:  domain.PriceTable{domain.USDReferenceID: {domain.NGN: 1500}},
	}

	q, err := newTestResolver(feed).Resolve(context.Background(), "ethereum", domain.NGN)
	require.NoError(t, err)
	assert.Equal(t, domain.ProvenanceUSDCross, q.Provenance)
}

func TestResolve_StaticFallback_ConversionFails(t *testing.T) {
	feed := &fakeFeed{liveErr: errTransport, usdErr: errTransport}

	q, err := newTestResolver(feed).Resolve(context.Background(), "ethereum", domain.NGN)
	require.NoError(t, err, "a failed conversion sub-call still yields the USD figure")
	assert.Equal(t, domain.Quote{Rate: 3200, Provenance: domain.ProvenanceStaticFallback}, q)

	require.Equal(t, 2, feed.callCount())
	assert.Equal(t, 60*time.Second, feed.calls[1].MaxAge)
}

func TestResolve_StaticFallback_Converted(t *testing.T) {
	feed := &fakeFeed{
		liveErr: errTransport,
		usd:     domain.PriceTable{domain.USDReferenceID: {domain.NGN: 1500}},
	}

	q, err := newTestResolver(feed).Resolve(context.Background(), "ethereum", domain.NGN)
	require.NoError(t, err)
	assert.Equal(t, domain.Quote{Rate: 4800000, Provenance: domain.ProvenanceStaticFallback}, q)
}

func TestResolve_StaticFallback_USDNeedsNoConversion(t *testing.T) {
	feed := &fakeFeed{liveErr: errTransport}

	q, err := newTestResolver(feed).Resolve(context.Background(), "binancecoin", domain.USD)
	require.NoError(t, err)
	assert.Equal(t, domain.Quote{Rate: 600, Provenance: domain.ProvenanceStaticFallback}, q)
	assert.Equal(t, 1, feed.callCount())
}

func TestResolve_StaticFallback_WhenFeedHasNoRates(t *testing.T) {
	feed := &fakeFeed{
		live: domain.PriceTable{},
		usd:  domain.PriceTable{domain.USDReferenceID: {domain.GHS: 15}},
	}

	q, err := newTestResolver(feed).Resolve(context.Background(), "toncoin", domain.GHS)
	require.NoError(t, err)
	assert.Equal(t, domain.ProvenanceStaticFallback, q.Provenance)
	assert.InDelta(t, 82.5, q.Rate, 1e-9)
	assert.Equal(t, 2, feed.callCount())
}

func TestResolve_CrossLookupIsNotRepeatedByFallback(t *testing.T) {
	feed := &fakeFeed{
		live:   domain.PriceTable{"ethereum": {domain.USD: 3200}},
		usdErr: errTransport,
	}

	q, err := newTestResolver(feed).Resolve(context.Background(), "ethereum", domain.EUR)
	require.NoError(t, err)
	assert.Equal(t, domain.Quote{Rate: 3200, Provenance: domain.ProvenanceStaticFallback}, q)
	assert.Equal(t, 2, feed.callCount(), "never more than two round trips")
}

func TestResolve_NoFallbackEntry(t *testing.T) {
	feed := &fakeFeed{liveErr: errTransport, usd: domain.PriceTable{domain.USDReferenceID: {domain.NGN: 1500}}}
	table := domain.NewFallbackPriceTable(map[domain.AssetID]float64{"ethereum": 3200})
	resolver := NewDefaultQuoteResolver(feed, table, DefaultResolverConfig(), nil, nil)

	_, err := resolver.Resolve(context.Background(), "celo", domain.NGN)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoPriceAvailable))
	assert.False(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, 1, feed.callCount(), "no request is made after the table misses")
}

func TestResolve_InvalidInputMakesNoCalls(t *testing.T) {
	feed := &fakeFeed{live: domain.PriceTable{"ethereum": {domain.USD: 3200}}}
	resolver := newTestResolver(feed)

	_, err := resolver.Resolve(context.Background(), "ethereum", "xyz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = resolver.Resolve(context.Background(), "dogecoin", domain.USD)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	assert.Equal(t, 0, feed.callCount())
}

func TestResolve_Idempotent(t *testing.T) {
	feed := &fakeFeed{
		live: domain.PriceTable{"ethereum": {domain.USD: 3200}},
		usd:  domain.PriceTable{domain.USDReferenceID: {domain.GBP: 0.79}},
	}
	resolver := newTestResolver(feed)

	first, err := resolver.Resolve(context.Background(), "ethereum", domain.GBP)
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "ethereum", domain.GBP)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFirstSuccess_Order(t *testing.T) {
	var order []string
	tier := func(name string, q domain.Quote, ok bool) attempt {
		return func(context.Context, *resolution) (domain.Quote, bool) {
			order = append(order, name)
			return q, ok
		}
	}

	q, ok := firstSuccess(context.Background(), &resolution{},
		tier("a", domain.Quote{}, false),
		tier("b", domain.Quote{Rate: -1, Provenance: domain.ProvenanceUSDCross}, true),
		tier("c", domain.Quote{Rate: 2, Provenance: domain.ProvenanceStaticFallback}, true),
		tier("d", domain.Quote{Rate: 3}, true),
	)
	require.True(t, ok)
	assert.Equal(t, 2.0, q.Rate, "a non-positive rate is never returned")
	assert.Equal(t, []string{"a", "b", "c"}, order)

	_, ok = firstSuccess(context.Background(), &resolution{})
	assert.False(t, ok)
}

func TestResolve_CancelledBeforeStart(t *testing.T) {
	feed := &fakeFeed{live: domain.PriceTable{"ethereum": {domain.USD: 3200, domain.NGN: 4800000}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestResolver(feed).Resolve(ctx, "ethereum", domain.NGN)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, domain.ErrNoPriceAvailable))
	assert.Equal(t, 0, feed.callCount())
}

func TestResolve_CancelledMidFlightSkipsFallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// the caller disconnects while the direct lookup is in flight
	feed := &fakeFeed{liveErr: errTransport, onCall: cancel}

	q, err := newTestResolver(feed).Resolve(ctx, "ethereum", domain.NGN)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.Quote{}, q)
	assert.Equal(t, 1, feed.callCount(), "no conversion lookup for an abandoned request")
}

func TestResolve_DeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := newTestResolver(&fakeFeed{liveErr: errTransport}).Resolve(ctx, "celo", domain.USD)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
