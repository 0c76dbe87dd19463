package extract

import (
	"math"
	"sort"
	"strings"
)

// Fallback scoring constants for the NGrams strategy.
const (
	ngFreqWeight = 0.5
	ngLenWeight  = 0.3
	ngPosWeight  = 0.2

	ngCharMin = 2 // character n-gram lengths
	ngCharMax = 5
)

// NGrams is the frequency strategy: character n-grams over the
// whitespace-stripped title plus word n-grams over the tokens, with
// frequencies accumulated across both passes.
type NGrams struct {
	opts Options
}

// NewNGrams creates the NGrams strategy with the given behavior flags.
func NewNGrams(opts Options) *NGrams {
	return &NGrams{opts: opts}
}

// Name implements Generator.
func (g *NGrams) Name() string { return "ngrams" }

// Generate implements Generator.
func (g *NGrams) Generate(title string) []Candidate {
	acc := newAccumulator()

	// Pass 1: character n-grams over the title with whitespace stripped.
	stripped := stripSpaces(title)
	for n := ngCharMin; n <= ngCharMax; n++ {
		for i := 0; i+n <= len(stripped); i++ {
			acc.add(string(stripped[i:i+n]), i, false)
		}
	}

	// Pass 2: word n-grams over whitespace-split tokens.
	toks := fieldsWithOffsets(title)
	maxN := 2
	if g.opts.AllowThreeGram {
		maxN = 3
	}
	parts := make([]string, 0, maxN)
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(toks); i++ {
			parts = parts[:0]
			for j := i; j < i+n; j++ {
				parts = append(parts, toks[j].text)
			}
			acc.add(strings.Join(parts, " "), toks[i].pos, n > 1)
		}
	}

	valid := make([]Candidate, 0, len(acc.order))
	for _, c := range acc.order {
		if validNGram(c.Text) {
			cand := *c
			cand.Category = classify(cand.Text, g.opts.Categories)
			valid = append(valid, cand)
		}
	}

	return dropNestedForms(valid)
}

// validNGram keeps candidates with at least one Hangul rune, length two or
// more, and some lexical content.
func validNGram(text string) bool {
	return hasHangul(text) && runeLen(text) >= 2 && !numericOrSymbolOnly(text)
}

// dropNestedForms removes any candidate that is a substring of, or
// contains, a higher-frequency surviving candidate, keeping the most
// specific high-frequency form. Ties favor the candidate processed first
// after the descending-frequency sort.
func dropNestedForms(cands []Candidate) []Candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Frequency > cands[j].Frequency
	})

	kept := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		nested := false
		for _, k := range kept {
			if strings.Contains(k.Text, c.Text) || strings.Contains(c.Text, k.Text) {
				nested = true
				break
			}
		}
		if !nested {
			kept = append(kept, c)
		}
	}
	return kept
}

// FallbackScore implements Generator: saturating frequency, the stepwise
// length curve, and an early-position bonus.
func (g *NGrams) FallbackScore(c Candidate) float64 {
	return ngFreqWeight*math.Min(c.Frequency/5, 1) +
		ngLenWeight*lengthScore(c.Length) +
		ngPosWeight*(1-float64(c.Position)/20)
}

// Rank implements Generator.
func (g *NGrams) Rank(c Candidate) float64 {
	if c.AdScored {
		return c.AdScore
	}
	return g.FallbackScore(c)
}

// lengthScore peaks for 2-4 rune candidates and decays stepwise: very long
// n-grams are usually noise fragments.
func lengthScore(length int) float64 {
	switch {
	case length >= 2 && length <= 4:
		return 1.0
	case length == 5:
		return 0.8
	case length == 6:
		return 0.6
	default:
		return 0.4
	}
}

// accumulator collects n-grams across passes, merging frequency for
// identical text and keeping the earliest position.
type accumulator struct {
	byText map[string]*Candidate
	order  []*Candidate
}

func newAccumulator() *accumulator {
	return &accumulator{byText: make(map[string]*Candidate)}
}

func (a *accumulator) add(text string, pos int, compound bool) {
	if existing, ok := a.byText[text]; ok {
		existing.Frequency++
		if pos < existing.Position {
			existing.Position = pos
		}
		existing.Compound = existing.Compound || compound
		return
	}
	c := &Candidate{
		Text:      text,
		Frequency: 1,
		Position:  pos,
		Length:    runeLen(text),
		Compound:  compound,
	}
	a.byText[text] = c
	a.order = append(a.order, c)
}
