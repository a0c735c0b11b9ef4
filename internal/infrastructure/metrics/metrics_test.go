package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestQuoteMetrics_Counters(t *testing.T) {
	m := NewQuoteMetrics(prometheus.NewRegistry())

	m.RecordQuoteResolved("live", "ngn")
	m.RecordQuoteResolved("live", "ngn")
	m.RecordTierFailure("direct", "transport")
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.SetFeedUp(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.QuotesResolvedTotal.WithLabelValues("live", "ngn")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TierFailuresTotal.WithLabelValues("direct", "transport")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedCacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedUp))

	m.SetFeedUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FeedUp))
}
