// Package adscore computes the weighted composite keyword score ("AdScore")
// and decides gate eligibility under a configurable mode.
package adscore

import (
	"github.com/tidewave/keytier/pkg/keytier/metric"
)

// Mode controls how strictly the gate treats the score floor.
type Mode string

const (
	// ModeHard enforces the score floor as a hard cutoff.
	ModeHard Mode = "hard"
	// ModeSoft treats the score floor as informational: apart from the
	// universal zero-signal cut, soft mode never blocks on score alone.
	ModeSoft Mode = "soft"
)

// Skip reasons attached to ineligible candidates.
const (
	ReasonNoSignal      = "ineligible" // no advertising signal at all
	ReasonBelowScoreMin = "score<thr"  // hard mode, AdScore under the floor
)

// Weights defines the contribution of each normalized signal.
// The configuration boundary guarantees they sum to 1.0 (+/-0.001);
// this package does not re-validate.
type Weights struct {
	Volume      float64
	Competition float64
	AdDepth     float64
	CPC         float64
}

// Thresholds defines the gate bounds. Only ScoreMin participates in the
// eligibility decision; the remaining bounds travel with the set so that
// Relax widens everything consistently for force-fill.
type Thresholds struct {
	ScoreMin   float64
	VolumeMin  float64
	AdDepthMin float64
	CPCMin     float64
}

// Relax returns a widened threshold set for force-fill scenarios: every
// bound is reduced proportionally by factor and floored at 0. A factor of
// 0.5 halves each bound.
func (t Thresholds) Relax(factor float64) Thresholds {
	return Thresholds{
		ScoreMin:   relaxBound(t.ScoreMin, factor),
		VolumeMin:  relaxBound(t.VolumeMin, factor),
		AdDepthMin: relaxBound(t.AdDepthMin, factor),
		CPCMin:     relaxBound(t.CPCMin, factor),
	}
}

func relaxBound(v, factor float64) float64 {
	relaxed := v * factor
	if relaxed < 0 {
		return 0
	}
	return relaxed
}

// Evaluation is the gate verdict for one keyword.
type Evaluation struct {
	AdScore    float64 // weighted composite in [0,1]
	Eligible   bool
	SkipReason string // empty when eligible
}

// Scorer combines normalized metrics into an AdScore and applies the gate.
type Scorer struct {
	weights    Weights
	thresholds Thresholds
	mode       Mode
	cpcMax     float64
}

// NewScorer creates a scorer. cpcMax of zero or less falls back to
// metric.DefaultCPCMax.
func NewScorer(w Weights, t Thresholds, mode Mode, cpcMax float64) *Scorer {
	return &Scorer{weights: w, thresholds: t, mode: mode, cpcMax: cpcMax}
}

// Relaxed returns a scorer with thresholds widened by factor, for
// force-fill re-evaluation. Weights, mode and the CPC cap are unchanged.
func (s *Scorer) Relaxed(factor float64) *Scorer {
	return NewScorer(s.weights, s.thresholds.Relax(factor), s.mode, s.cpcMax)
}

// AdScore computes the weighted sum of the normalized signals.
func (s *Scorer) AdScore(raw metric.Raw) float64 {
	return s.weights.Volume*metric.Volume(raw.Volume) +
		s.weights.Competition*metric.Competition(raw.Competition) +
		s.weights.AdDepth*metric.AdDepth(raw.AdDepth) +
		s.weights.CPC*metric.CPC(raw.CPC, s.cpcMax)
}

// Evaluate computes the AdScore and applies the gate, in this order:
//
//  1. Competition and ad depth both zero: not eligible, regardless of mode.
//     A keyword with no advertising signal at all is a hard cut.
//  2. Hard mode with AdScore under ScoreMin: not eligible.
//  3. Otherwise eligible.
//
// Soft mode is deliberately permissive: the score floor is informational
// only, so early title-level filtering never blocks on score alone.
func (s *Scorer) Evaluate(raw metric.Raw) Evaluation {
	score := s.AdScore(raw)

	if raw.Competition == 0 && raw.AdDepth == 0 {
		return Evaluation{AdScore: score, SkipReason: ReasonNoSignal}
	}
	if s.mode == ModeHard && score < s.thresholds.ScoreMin {
		return Evaluation{AdScore: score, SkipReason: ReasonBelowScoreMin}
	}
	return Evaluation{AdScore: score, Eligible: true}
}
