// Package tier turns scored candidates into a fixed-size ranked tier list.
package tier

import (
	"sort"

	"github.com/tidewave/keytier/pkg/keytier/extract"
)

// MinPoolVolume is the last-chance pool floor on search volume: candidates
// below it need an AdScore at or above the configured minimum to stay in
// the pool.
const MinPoolVolume = 10

// DefaultScoreMin is the pool filter AdScore floor when the configuration
// leaves it unset.
const DefaultScoreMin = 0.35

// Tier is one ranked output slot. Score is frozen at assignment time and
// does not change if the candidate later mutates.
type Tier struct {
	Tier      int               // 1-based rank position
	Candidate extract.Candidate // the occupant, or the empty sentinel (Text == "")
	Score     float64
}

// Empty reports whether the slot holds the back-fill sentinel.
func (t Tier) Empty() bool { return t.Candidate.Text == "" }

// Assigner applies the shared tiering policy: sort, last-chance pool
// filter, truncation, numbering and optional auto-fill.
type Assigner struct {
	TiersPerPost  int     // output slots, 1..10
	ScoreMin      float64 // pool filter AdScore floor; <=0 uses DefaultScoreMin
	AutoFill      bool    // pad with empty sentinels up to TiersPerPost
	DiversityFill bool    // Hybrid: back-fill real terms with diversity preference
}

// Assign builds the tier list from candidates that already carry their
// TotalScore. The input order is the tie-break: the sort is stable.
func (a Assigner) Assign(cands []extract.Candidate) []Tier {
	sorted := make([]extract.Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalScore > sorted[j].TotalScore
	})

	pool, rest := a.splitPool(sorted)

	limit := a.TiersPerPost
	if limit <= 0 {
		limit = 1
	}
	if len(pool) > limit {
		rest = append(pool[limit:], rest...)
		pool = pool[:limit]
	}

	tiers := make([]Tier, 0, limit)
	for _, c := range pool {
		tiers = append(tiers, Tier{
			Tier:      len(tiers) + 1,
			Candidate: c,
			Score:     c.TotalScore,
		})
	}

	if !a.AutoFill {
		return tiers
	}
	if a.DiversityFill {
		tiers = a.fillDiverse(tiers, rest, limit)
	}
	for len(tiers) < limit {
		tiers = append(tiers, Tier{Tier: len(tiers) + 1})
	}
	return tiers
}

// splitPool applies the last-chance filter: keep candidates with enough
// search volume or a good enough AdScore. An empty pool falls back to the
// single highest-scoring candidate so the assigner never returns zero
// candidates when at least one exists.
func (a Assigner) splitPool(sorted []extract.Candidate) (pool, rest []extract.Candidate) {
	scoreMin := a.ScoreMin
	if scoreMin <= 0 {
		scoreMin = DefaultScoreMin
	}

	for _, c := range sorted {
		if (c.Volume != nil && *c.Volume >= MinPoolVolume) || (c.AdScored && c.AdScore >= scoreMin) {
			pool = append(pool, c)
		} else {
			rest = append(rest, c)
		}
	}

	if len(pool) == 0 && len(sorted) > 0 {
		pool = sorted[:1]
		rest = sorted[1:]
	}
	return pool, rest
}

// fillDiverse back-fills empty slots from the leftover candidates before
// sentinels get used. It prefers introducing at least one compound and one
// simple (non-compound, <=4 rune) term among the filled tiers, then falls
// back to plain highest-score order.
func (a Assigner) fillDiverse(tiers []Tier, rest []extract.Candidate, limit int) []Tier {
	if len(tiers) >= limit || len(rest) == 0 {
		return tiers
	}

	hasCompound := false
	hasSimple := false
	for _, t := range tiers {
		if t.Candidate.Compound {
			hasCompound = true
		}
		if isSimple(t.Candidate) {
			hasSimple = true
		}
	}

	used := make([]bool, len(rest))
	take := func(match func(extract.Candidate) bool) bool {
		for i, c := range rest {
			if used[i] || !match(c) {
				continue
			}
			used[i] = true
			tiers = append(tiers, Tier{
				Tier:      len(tiers) + 1,
				Candidate: c,
				Score:     c.TotalScore,
			})
			return true
		}
		return false
	}

	if !hasCompound && len(tiers) < limit {
		take(func(c extract.Candidate) bool { return c.Compound })
	}
	if !hasSimple && len(tiers) < limit {
		take(isSimple)
	}
	for len(tiers) < limit {
		if !take(func(extract.Candidate) bool { return true }) {
			break
		}
	}
	return tiers
}

func isSimple(c extract.Candidate) bool {
	return !c.Compound && c.Length <= 4
}
