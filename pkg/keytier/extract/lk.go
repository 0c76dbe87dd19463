package extract

import (
	"math"
	"strings"

	"github.com/tidewave/keytier/pkg/keytier/metric"
)

// Fallback scoring constants for the LK strategy. These are fixed
// algorithmic constants, not configuration fields.
const (
	lkVolumeWeight  = 0.4
	lkContentWeight = 0.6
	lkPosWeight     = 0.3
	lkLenWeight     = 0.3
	lkFreqWeight    = 0.4
	lkCompoundBonus = 0.2
)

// LK is the linguistic n-gram strategy: whitespace tokens combined into
// 1-, 2- and 3-token spans, cleaned, banned-singles filtered, and
// classified against the category vocabulary.
type LK struct {
	opts   Options
	banned map[string]struct{}
}

// NewLK creates the LK strategy with the given behavior flags.
func NewLK(opts Options) *LK {
	banned := make(map[string]struct{}, len(opts.BanSingles))
	for _, b := range opts.BanSingles {
		banned[strings.ToLower(b)] = struct{}{}
	}
	return &LK{opts: opts, banned: banned}
}

// Name implements Generator.
func (g *LK) Name() string { return "lk" }

// Generate implements Generator.
func (g *LK) Generate(title string) []Candidate {
	toks := fieldsWithOffsets(title)
	if len(toks) == 0 {
		return nil
	}

	maxN := 2
	if g.opts.AllowThreeGram {
		maxN = 3
	}

	var raw []Candidate
	span := make([]string, 0, maxN)
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(toks); i++ {
			span = span[:0]
			for j := i; j < i+n; j++ {
				span = append(span, toks[j].text)
			}
			text := cleanSpan(span)
			if runeLen(text) < 2 {
				continue
			}
			if n == 1 {
				if _, banned := g.banned[strings.ToLower(text)]; banned {
					continue
				}
			}
			raw = append(raw, Candidate{
				Text:      text,
				Frequency: 1,
				Position:  toks[i].pos,
				Length:    runeLen(text),
				Compound:  n > 1,
				Category:  classify(text, g.opts.Categories),
			})
		}
	}

	out := dedupFirstWins(raw)
	if g.opts.PreferCompound {
		for i := range out {
			if out[i].Compound {
				out[i].Frequency += 0.5
			}
		}
	}
	return out
}

// FallbackScore implements Generator: position, length and frequency folded
// into a content score, blended with the normalized volume signal, plus a
// flat compound bonus.
func (g *LK) FallbackScore(c Candidate) float64 {
	var volume float64
	if c.Volume != nil {
		volume = *c.Volume
	}

	posScore := 1 - float64(c.Position)/10
	lenScore := math.Min(float64(c.Length)/10, 1)
	content := posScore*lkPosWeight + lenScore*lkLenWeight + c.Frequency*lkFreqWeight

	score := lkVolumeWeight*metric.Volume(volume) + lkContentWeight*content
	if c.Compound {
		score += lkCompoundBonus
	}
	return score
}

// Rank implements Generator.
func (g *LK) Rank(c Candidate) float64 {
	if c.AdScored {
		return c.AdScore
	}
	return g.FallbackScore(c)
}

// classify returns the first configured category whose text appears inside
// the candidate, or CategoryOther when none match.
func classify(text string, categories []string) string {
	lower := strings.ToLower(text)
	for _, cat := range categories {
		if cat == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(cat)) {
			return cat
		}
	}
	return CategoryOther
}
