// Package keytier is the analytical core of a rank-tracking product: it
// extracts candidate keywords from post titles, enriches them with external
// popularity and competition signals, gates them on a composite AdScore,
// and emits a fixed-size ranked tier list per title.
package keytier

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/tidewave/keytier/pkg/keytier/adscore"
	"github.com/tidewave/keytier/pkg/keytier/config"
	"github.com/tidewave/keytier/pkg/keytier/enrich"
	"github.com/tidewave/keytier/pkg/keytier/extract"
	"github.com/tidewave/keytier/pkg/keytier/internalerr"
	"github.com/tidewave/keytier/pkg/keytier/oracle"
	"github.com/tidewave/keytier/pkg/keytier/tier"
)

// relaxFactor widens the gate thresholds when force-fill kicks in: every
// bound is halved, floored at 0.
const relaxFactor = 0.5

// Post identifies one title-processing call.
type Post struct {
	ID      string
	Title   string
	Channel string
}

// Result is the sole externally visible output of a processing call.
type Result struct {
	ID       string // ULID minted per call
	PostID   string
	Title    string
	Strategy string
	Tiers    []tier.Tier
}

// Options configures an Engine.
type Options struct {
	// Oracle supplies per-keyword metrics. A nil oracle means enrichment
	// is unavailable: gated runs degrade to pass-through.
	Oracle oracle.Oracle
}

// Engine runs the generate → enrich → tier pipeline. It holds no mutable
// state across calls beyond the ID entropy source; titles may be processed
// concurrently.
type Engine struct {
	oracle oracle.Oracle

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	return &Engine{
		oracle:  opts.Oracle,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// ProcessTitle produces the ranked tier list for one title under the given
// profile. The profile is assumed valid (the config boundary's contract).
// The only error condition is an unknown strategy; every other input,
// however degenerate, yields a (possibly sentinel-filled) result.
func (e *Engine) ProcessTitle(ctx context.Context, post Post, profile *config.Profile) (Result, error) {
	gen, err := generatorFor(profile)
	if err != nil {
		return Result{}, err
	}

	cands := gen.Generate(post.Title)

	scorer := adscore.NewScorer(
		adscore.Weights{
			Volume:      profile.Weights.Volume,
			Competition: profile.Weights.Competition,
			AdDepth:     profile.Weights.AdDepth,
			CPC:         profile.Weights.CPC,
		},
		adscore.Thresholds{
			ScoreMin:   profile.Thresholds.ScoreMin,
			VolumeMin:  profile.Thresholds.VolumeMin,
			AdDepthMin: profile.Thresholds.AdDepthMin,
			CPCMin:     profile.Thresholds.CPCMin,
		},
		adscore.Mode(profile.GateMode),
		profile.CPCMax,
	)

	var metrics map[string]oracle.Metrics
	gated := profile.ScoreFirstGate && len(cands) > 0
	if gated {
		adapter := &enrich.Adapter{Oracle: e.oracle}
		m, err := adapter.Fetch(ctx, cands)
		if err != nil || e.oracle == nil {
			enrich.PassThrough(cands)
		} else {
			metrics = m
			enrich.Score(cands, metrics, scorer)
		}
	} else {
		enrich.SkipGate(cands)
	}

	rescore(cands, gen)

	eligible := eligibleOf(cands)
	if len(eligible) == 0 && len(cands) > 0 && profile.ForceFill && metrics != nil {
		enrich.Score(cands, metrics, scorer.Relaxed(relaxFactor))
		rescore(cands, gen)
		eligible = eligibleOf(cands)
	}

	assigner := tier.Assigner{
		TiersPerPost:  profile.TiersPerPost,
		ScoreMin:      profile.Thresholds.ScoreMin,
		AutoFill:      profile.TierAutoFill,
		DiversityFill: gen.Name() == config.StrategyHybrid,
	}

	return Result{
		ID:       e.newID(),
		PostID:   post.ID,
		Title:    post.Title,
		Strategy: gen.Name(),
		Tiers:    assigner.Assign(eligible),
	}, nil
}

// generatorFor selects the extraction strategy for a profile. The strategy
// set is closed; anything else is a configuration error.
func generatorFor(profile *config.Profile) (extract.Generator, error) {
	opts := extract.Options{
		PreferCompound: profile.PreferCompound,
		AllowThreeGram: profile.AllowThreeGram,
		BanSingles:     profile.BanSingles,
		Categories:     profile.Categories,
	}

	switch profile.Strategy {
	case config.StrategyLK:
		return extract.NewLK(opts), nil
	case config.StrategyNGrams:
		return extract.NewNGrams(opts), nil
	case config.StrategyHybrid:
		return extract.NewHybrid(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", internalerr.ErrUnknownStrategy, profile.Strategy)
	}
}

func rescore(cands []extract.Candidate, gen extract.Generator) {
	for i := range cands {
		cands[i].TotalScore = gen.Rank(cands[i])
	}
}

func eligibleOf(cands []extract.Candidate) []extract.Candidate {
	out := make([]extract.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Eligible {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) newID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Now(), e.entropy).String()
}
