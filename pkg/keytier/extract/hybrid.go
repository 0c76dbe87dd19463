package extract

import (
	"math"
	"strings"
)

// Merge and ranking constants for the Hybrid strategy. Fixed algorithmic
// constants, not configuration fields.
const (
	hybridLKOnlyBoost   = 1.2  // LK found it, NGrams did not
	hybridBothBoost     = 0.5  // both strategies found it
	hybridCrossBoost    = 1.0  // added when merged frequency exceeds 2
	hybridFreqWeight    = 0.2  // saturating frequency contribution to rank
	hybridCompoundBonus = 0.15 // under PreferCompound
	hybridLengthPenalty = 0.1  // texts longer than 10 runes
	hybridCategoryBonus = 0.1  // text matches a configured category

	hybridMinLen = 2
	hybridMaxLen = 15
)

// Hybrid runs the LK and NGrams strategies independently and merges their
// candidate sets, favoring terms both strategies agree on.
type Hybrid struct {
	opts Options
	lk   *LK
	ng   *NGrams
}

// NewHybrid creates the Hybrid strategy with the given behavior flags.
func NewHybrid(opts Options) *Hybrid {
	return &Hybrid{
		opts: opts,
		lk:   NewLK(opts),
		ng:   NewNGrams(opts),
	}
}

// Name implements Generator.
func (g *Hybrid) Name() string { return "hybrid" }

// Generate implements Generator: merge by exact text key, quality-filter
// the merged set, then boost terms both strategies surfaced.
func (g *Hybrid) Generate(title string) []Candidate {
	lkCands := g.lk.Generate(title)
	ngCands := g.ng.Generate(title)

	index := make(map[string]int, len(lkCands)+len(ngCands))
	merged := make([]Candidate, 0, len(lkCands)+len(ngCands))
	fromBoth := make(map[string]struct{})
	fromLK := make(map[string]struct{}, len(lkCands))

	for _, c := range lkCands {
		fromLK[c.Text] = struct{}{}
		index[c.Text] = len(merged)
		merged = append(merged, c)
	}
	for _, c := range ngCands {
		at, ok := index[c.Text]
		if !ok {
			index[c.Text] = len(merged)
			merged = append(merged, c)
			continue
		}
		fromBoth[c.Text] = struct{}{}
		m := &merged[at]
		m.Frequency = math.Max(m.Frequency, c.Frequency) + hybridBothBoost
		m.Compound = m.Compound || c.Compound
		if c.Position < m.Position {
			m.Position = c.Position
		}
	}

	out := make([]Candidate, 0, len(merged))
	for _, c := range merged {
		if _, both := fromBoth[c.Text]; !both {
			if _, lkOnly := fromLK[c.Text]; lkOnly {
				c.Frequency *= hybridLKOnlyBoost
			}
		}
		if !g.qualityFilter(c) {
			continue
		}
		if c.Frequency > 2 {
			// Found by both strategies, or repeated enough to count as such.
			c.Frequency += hybridCrossBoost
		}
		out = append(out, c)
	}
	return out
}

// qualityFilter keeps merged candidates that look like real Korean keyword
// spans: bounded length, positive weight, Hangul present, and none of the
// junk shapes (pure numerals/symbols, english-only, single-rune repeats).
func (g *Hybrid) qualityFilter(c Candidate) bool {
	if c.Length < hybridMinLen || c.Length > hybridMaxLen {
		return false
	}
	if c.Frequency <= 0 {
		return false
	}
	if !hasHangul(c.Text) {
		return false
	}
	if numericOrSymbolOnly(c.Text) || asciiLettersOnly(c.Text) || singleRuneRepeat(c.Text) {
		return false
	}
	return true
}

// FallbackScore implements Generator. The merged set inherits the LK
// content formula as its base when no AdScore is attached.
func (g *Hybrid) FallbackScore(c Candidate) float64 {
	return g.lk.FallbackScore(c)
}

// Rank implements Generator: base score plus a saturating frequency boost,
// compound bonus, over-length penalty and category bonus.
func (g *Hybrid) Rank(c Candidate) float64 {
	base := g.FallbackScore(c)
	if c.AdScored {
		base = c.AdScore
	}

	score := base + math.Min(c.Frequency/3, 1)*hybridFreqWeight
	if c.Compound && g.opts.PreferCompound {
		score += hybridCompoundBonus
	}
	if c.Length > 10 {
		score -= hybridLengthPenalty
	}
	if g.matchesCategory(c.Text) {
		score += hybridCategoryBonus
	}
	return score
}

func (g *Hybrid) matchesCategory(text string) bool {
	lower := strings.ToLower(text)
	for _, cat := range g.opts.Categories {
		if cat == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(cat)) {
			return true
		}
	}
	return false
}
