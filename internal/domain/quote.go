package domain

import "math"

// Provenance tells which resolution tier produced a quote.
type Provenance string

const (
	ProvenanceDirect         Provenance = "direct"
	ProvenanceUSDCross       Provenance = "usd-cross"
	ProvenanceStaticFallback Provenance = "static-fallback"
)

// Source is the label exposed on the wire.
func (p Provenance) Source() string {
	switch p {
	case ProvenanceDirect:
		return "live"
	case ProvenanceUSDCross:
		return "usd-fallback"
	default:
		return string(p)
	}
}

// Quote is a resolved asset→currency rate. Rate is always positive and finite.
type Quote struct {
	Rate       float64
	Provenance Provenance
}

// Degraded reports whether the quote came from a lower fidelity tier.
// A degraded quote is still a valid result.
func (q Quote) Degraded() bool {
	return q.Provenance != ProvenanceDirect
}

// UsableRate reports whether v can be handed out as a rate.
func UsableRate(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
