package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-cashout-service/internal/domain"
	"github.com/LavaJover/shvark-cashout-service/internal/infrastructure/metrics"
)

type QuoteResolver interface {
	Resolve(ctx context.Context, asset domain.AssetID, currency domain.CurrencyCode) (domain.Quote, error)
}

// ResolverConfig sets how stale a cached feed response may be for each lookup.
type ResolverConfig struct {
	LiveMaxAge     time.Duration
	FallbackMaxAge time.Duration
}

func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		LiveMaxAge:     30 * time.Second,
		FallbackMaxAge: 60 * time.Second,
	}
}

// DefaultQuoteResolver resolves a rate through three ordered tiers:
// the direct pair, a cross rate through USD, then the static fallback table.
type DefaultQuoteResolver struct {
	feed     domain.PriceFeed
	fallback domain.FallbackPriceTable
	cfg      ResolverConfig
	metrics  *metrics.QuoteMetrics
	log      *slog.Logger
}

func NewDefaultQuoteResolver(
	feed domain.PriceFeed,
	fallback domain.FallbackPriceTable,
	cfg ResolverConfig,
	quoteMetrics *metrics.QuoteMetrics,
	log *slog.Logger,
) *DefaultQuoteResolver {
	if log == nil {
		log = slog.Default()
	}
	return &DefaultQuoteResolver{
		feed:     feed,
		fallback: fallback,
		cfg:      cfg,
		metrics:  quoteMetrics,
		log:      log,
	}
}

// resolution is the per-call state shared by the tiers.
type resolution struct {
	asset    domain.AssetID
	currency domain.CurrencyCode

	live    domain.PriceTable
	liveErr error

	usdLookupDone bool
	usdToCurrency float64
	usdLookupOK   bool
}

// attempt is one tier. It reports false to let the next tier run.
type attempt func(ctx context.Context, res *resolution) (domain.Quote, bool)

// firstSuccess runs attempts in order and returns the first usable quote.
// It stops as soon as ctx is done.
func firstSuccess(ctx context.Context, res *resolution, attempts ...attempt) (domain.Quote, bool) {
	for _, try := range attempts {
		if ctx.Err() != nil {
			return domain.Quote{}, false
		}
		q, ok := try(ctx, res)
		if ok && domain.UsableRate(q.Rate) {
			return q, true
		}
	}
	return domain.Quote{}, false
}

func (r *DefaultQuoteResolver) Resolve(ctx context.Context, asset domain.AssetID, currency domain.CurrencyCode) (domain.Quote, error) {
	asset, err := domain.ParseAsset(string(asset))
	if err != nil {
		return domain.Quote{}, err
	}
	currency, err = domain.ParseCurrency(string(currency))
	if err != nil {
		return domain.Quote{}, err
	}

	res := &resolution{asset: asset, currency: currency}
	q, ok := firstSuccess(ctx, res, r.directTier, r.usdCrossTier, r.staticFallbackTier)
	// a caller that went away is not a feed outage; its fallback quote is discarded
	if err := ctx.Err(); err != nil {
		return domain.Quote{}, fmt.Errorf("resolve %s/%s: %w", asset, currency, err)
	}
	if !ok {
		return domain.Quote{}, fmt.Errorf("%w: %s/%s", domain.ErrNoPriceAvailable, asset, currency)
	}
	return q, nil
}

func (r *DefaultQuoteResolver) directTier(ctx context.Context, res *resolution) (domain.Quote, bool) {
	currencies := []domain.CurrencyCode{domain.USD}
	if res.currency != domain.USD {
		currencies = append(currencies, res.currency)
	}
	res.live, res.liveErr = r.feed.SimplePrice(ctx, domain.PriceRequest{
		IDs:          []domain.AssetID{res.asset},
		VsCurrencies: currencies,
		MaxAge:       r.cfg.LiveMaxAge,
	})
	if res.liveErr != nil {
		r.tierFailed("direct", "transport", res, res.liveErr)
		return domain.Quote{}, false
	}

	rate, ok := res.live.Rate(res.asset, res.currency)
	if !ok {
		r.tierFailed("direct", "missing_rate", res, nil)
		return domain.Quote{}, false
	}
	return domain.Quote{Rate: rate, Provenance: domain.ProvenanceDirect}, true
}

func (r *DefaultQuoteResolver) usdCrossTier(ctx context.Context, res *resolution) (domain.Quote, bool) {
	if res.liveErr != nil {
		return domain.Quote{}, false
	}
	usdRate, ok := res.live.Rate(res.asset, domain.USD)
	if !ok {
		r.tierFailed("usd_cross", "missing_usd_rate", res, nil)
		return domain.Quote{}, false
	}

	usdToCurrency, ok := r.lookupUSDTo(ctx, res, r.cfg.LiveMaxAge)
	if !ok {
		r.tierFailed("usd_cross", "missing_usd_conversion", res, nil)
		return domain.Quote{}, false
	}

	rate := usdRate * usdToCurrency
	if !domain.UsableRate(rate) {
		r.tierFailed("usd_cross", "unusable_rate", res, nil)
		return domain.Quote{}, false
	}
	return domain.Quote{Rate: rate, Provenance: domain.ProvenanceUSDCross}, true
}

func (r *DefaultQuoteResolver) staticFallbackTier(ctx context.Context, res *resolution) (domain.Quote, bool) {
	fallbackUSD, ok := r.fallback.Lookup(res.asset)
	if !ok {
		r.tierFailed("static_fallback", "no_entry", res, nil)
		return domain.Quote{}, false
	}

	quote := domain.Quote{Rate: fallbackUSD, Provenance: domain.ProvenanceStaticFallback}
	if res.currency == domain.USD {
		return quote, true
	}

	usdToCurrency, ok := r.lookupUSDTo(ctx, res, r.cfg.FallbackMaxAge)
	if ok && domain.UsableRate(fallbackUSD*usdToCurrency) {
		quote.Rate = fallbackUSD * usdToCurrency
		return quote, true
	}

	r.log.Warn("serving unconverted USD fallback price",
		"asset", res.asset,
		"currency", res.currency,
		"rate_usd", fallbackUSD)
	return quote, true
}

// lookupUSDTo fetches usd→currency at most once per resolution; a second tier
// asking for it reuses the first outcome.
func (r *DefaultQuoteResolver) lookupUSDTo(ctx context.Context, res *resolution, maxAge time.Duration) (float64, bool) {
	if res.usdLookupDone {
		return res.usdToCurrency, res.usdLookupOK
	}
	res.usdLookupDone = true

	table, err := r.feed.SimplePrice(ctx, domain.PriceRequest{
		IDs:          []domain.AssetID{domain.USDReferenceID},
		VsCurrencies: []domain.CurrencyCode{res.currency},
		MaxAge:       maxAge,
	})
	if err != nil {
		r.log.Warn("usd conversion lookup failed",
			"currency", res.currency,
			"error", err)
		return 0, false
	}
	res.usdToCurrency, res.usdLookupOK = table.Rate(domain.USDReferenceID, res.currency)
	return res.usdToCurrency, res.usdLookupOK
}

func (r *DefaultQuoteResolver) tierFailed(tier, reason string, res *resolution, err error) {
	if r.metrics != nil {
		r.metrics.RecordTierFailure(tier, reason)
	}
	attrs := []any{"tier", tier, "reason", reason, "asset", res.asset, "currency", res.currency}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	r.log.Debug("quote tier fell through", attrs...)
}
