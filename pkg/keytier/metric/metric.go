// Package metric maps raw advertising signals into comparable [0,1] ranges.
//
// All functions are total over real-number inputs: out-of-range and missing
// (zero) values normalize without error. Callers decide what absence means.
package metric

import "math"

// DefaultCPCMax is the cost-per-click cap used when no explicit cap is
// configured. CPC values at or above the cap normalize to 1.
const DefaultCPCMax = 2000

// Raw holds the four external signals for one keyword, unnormalized.
// A zero value means the signal is absent, which is a valid, common state.
type Raw struct {
	Volume      float64 // monthly search volume
	Competition float64 // competition index, pre-normalized to [0,1] upstream
	AdDepth     float64 // number of ads shown for the keyword
	CPC         float64 // cost per click, in the account currency's minor unit
}

// Volume compresses a multi-order-of-magnitude search count into [0,1].
// Volumes of one or less normalize to 0; 100k and above saturate at 1.
func Volume(v float64) float64 {
	return math.Min(1, math.Log10(math.Max(1, v))/5)
}

// Competition clamps a competition index to [0,1]. Enrichment sources are
// expected to pre-normalize; out-of-range values clamp rather than error.
func Competition(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// AdDepth maps an ad count to [0,1], saturating at five ads.
func AdDepth(d float64) float64 {
	return math.Min(1, d/5)
}

// CPC maps a cost-per-click to [0,1] against the given cap. A cap of zero or
// less falls back to DefaultCPCMax.
func CPC(cpc, cpcMax float64) float64 {
	if cpcMax <= 0 {
		cpcMax = DefaultCPCMax
	}
	return math.Min(1, cpc/cpcMax)
}
