package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QuoteMetrics holds every metric the cashout service exports.
type QuoteMetrics struct {
	// Resolutions
	QuotesResolvedTotal *prometheus.CounterVec
	QuoteFailuresTotal  *prometheus.CounterVec
	TierFailuresTotal   *prometheus.CounterVec
	ConversionsTotal    *prometheus.CounterVec

	// Upstream feed
	FeedRequestDuration *prometheus.HistogramVec
	FeedCacheLookups    *prometheus.CounterVec
	FeedUp              prometheus.Gauge

	// HTTP
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewQuoteMetrics registers the metrics on reg.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	factory := promauto.With(reg)
	return &QuoteMetrics{
		QuotesResolvedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashout_quotes_resolved_total",
				Help: "Quotes successfully resolved, by source tier",
			},
			[]string{"source", "currency"},
		),

		QuoteFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashout_quote_failures_total",
				Help: "Quote requests that returned an error",
			},
			[]string{"reason"},
		),

		TierFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashout_quote_tier_failures_total",
				Help: "Resolution tiers that fell through to the next one",
			},
			[]string{"tier", "reason"},
		),

		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashout_conversions_total",
				Help: "Pay→receive conversions computed",
			},
			[]string{"currency", "degraded"},
		),

		FeedRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashout_feed_request_duration_seconds",
				Help:    "Upstream price feed request latency",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms .. ~5s
			},
			[]string{"endpoint", "outcome"},
		),

		FeedCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashout_feed_cache_lookups_total",
				Help: "Feed response cache lookups",
			},
			[]string{"result"},
		),

		FeedUp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cashout_feed_up",
				Help: "1 when the last upstream health probe succeeded",
			},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashout_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (m *QuoteMetrics) RecordQuoteResolved(source, currency string) {
	m.QuotesResolvedTotal.WithLabelValues(source, currency).Inc()
}

func (m *QuoteMetrics) RecordQuoteFailure(reason string) {
	m.QuoteFailuresTotal.WithLabelValues(reason).Inc()
}

func (m *QuoteMetrics) RecordTierFailure(tier, reason string) {
	m.TierFailuresTotal.WithLabelValues(tier, reason).Inc()
}

func (m *QuoteMetrics) RecordConversion(currency string, degraded bool) {
	degradedStr := "false"
	if degraded {
		degradedStr = "true"
	}
	m.ConversionsTotal.WithLabelValues(currency, degradedStr).Inc()
}

func (m *QuoteMetrics) RecordFeedRequest(endpoint, outcome string, durationSeconds float64) {
	m.FeedRequestDuration.WithLabelValues(endpoint, outcome).Observe(durationSeconds)
}

func (m *QuoteMetrics) RecordCacheLookup(hit bool) {
	if hit {
		m.FeedCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.FeedCacheLookups.WithLabelValues("miss").Inc()
}

func (m *QuoteMetrics) SetFeedUp(up bool) {
	if up {
		m.FeedUp.Set(1)
		return
	}
	m.FeedUp.Set(0)
}

func (m *QuoteMetrics) RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
}
