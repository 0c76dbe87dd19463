// Package config loads and validates the weighting, threshold and
// feature-flag profile the pipeline consumes. Validation is this boundary's
// contract: the core packages assume a valid profile and never re-check.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tidewave/keytier/pkg/keytier/internalerr"
)

// Strategy identifiers accepted by the engine.
const (
	StrategyLK     = "lk"
	StrategyNGrams = "ngrams"
	StrategyHybrid = "hybrid"
)

// weightSumTolerance is how far the four weights may drift from 1.0.
const weightSumTolerance = 0.001

// Weights configures the AdScore contribution of each signal.
type Weights struct {
	Volume      float64 `yaml:"volume"`
	Competition float64 `yaml:"competition"`
	AdDepth     float64 `yaml:"ad_depth"`
	CPC         float64 `yaml:"cpc"`
}

// Thresholds configures the gate bounds.
type Thresholds struct {
	ScoreMin   float64 `yaml:"score_min"`
	VolumeMin  float64 `yaml:"volume_min"`
	AdDepthMin float64 `yaml:"ad_depth_min"`
	CPCMin     float64 `yaml:"cpc_min"`
}

// Profile is the full configuration bundle for one processing call.
type Profile struct {
	Strategy     string `yaml:"strategy"`
	TiersPerPost int    `yaml:"tiers_per_post"`

	// Per-strategy behavior flags.
	PreferCompound bool     `yaml:"prefer_compound"`
	AllowThreeGram bool     `yaml:"allow_three_gram"`
	BanSingles     []string `yaml:"ban_singles"`
	Categories     []string `yaml:"categories"`

	// Scoring and gating.
	Weights    Weights    `yaml:"weights"`
	Thresholds Thresholds `yaml:"thresholds"`
	GateMode   string     `yaml:"gate_mode"` // "hard" or "soft"
	CPCMax     float64    `yaml:"cpc_max"`

	// Gate behavior flags.
	ScoreFirstGate bool `yaml:"score_first_gate"`
	ForceFill      bool `yaml:"force_fill"`
	TierAutoFill   bool `yaml:"tier_auto_fill"`
}

// Default returns a permissive baseline profile.
func Default() *Profile {
	return &Profile{
		Strategy:       StrategyLK,
		TiersPerPost:   4,
		PreferCompound: true,
		AllowThreeGram: true,
		Weights: Weights{
			Volume:      0.4,
			Competition: 0.2,
			AdDepth:     0.2,
			CPC:         0.2,
		},
		Thresholds: Thresholds{
			ScoreMin: 0.35,
		},
		GateMode:       "soft",
		CPCMax:         2000,
		ScoreFirstGate: true,
		TierAutoFill:   true,
	}
}

// Load reads a profile from a YAML file and validates it.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the profile invariants the core relies on.
func (p *Profile) Validate() error {
	switch p.Strategy {
	case StrategyLK, StrategyNGrams, StrategyHybrid:
	default:
		return fmt.Errorf("%w: strategy %q", internalerr.ErrInvalidConfig, p.Strategy)
	}

	if p.TiersPerPost < 1 || p.TiersPerPost > 10 {
		return fmt.Errorf("%w: tiers_per_post %d outside 1..10", internalerr.ErrInvalidConfig, p.TiersPerPost)
	}

	for name, w := range map[string]float64{
		"volume":      p.Weights.Volume,
		"competition": p.Weights.Competition,
		"ad_depth":    p.Weights.AdDepth,
		"cpc":         p.Weights.CPC,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: weight %s=%g outside [0,1]", internalerr.ErrInvalidConfig, name, w)
		}
	}

	sum := p.Weights.Volume + p.Weights.Competition + p.Weights.AdDepth + p.Weights.CPC
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %g, want 1.0", internalerr.ErrInvalidConfig, sum)
	}

	if p.GateMode != "hard" && p.GateMode != "soft" {
		return fmt.Errorf("%w: gate_mode %q", internalerr.ErrInvalidConfig, p.GateMode)
	}

	return nil
}
