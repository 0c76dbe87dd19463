// Package extract turns a post title into candidate keyword spans using a
// closed set of interchangeable strategies: linguistic spans (LK),
// frequency n-grams (NGrams), and a merge of the two (Hybrid).
package extract

import "strings"

// CategoryOther is the default category assigned when no configured
// category matches a candidate.
const CategoryOther = "기타"

// Candidate is a keyword span extracted from a title, accumulated through
// the pipeline stages. Candidates are created fresh per title, mutated
// through generation, enrichment and scoring, then consumed read-only by
// the tier assigner.
type Candidate struct {
	Text      string  // normalized span; dedup key is case/whitespace-insensitive
	Frequency float64 // accumulated occurrence weight; strategies add fractional boosts
	Position  int     // earliest rune index of first occurrence (lower is better)
	Length    int     // rune length of Text
	Compound  bool    // spans more than one source token
	Category  string  // matched category, or CategoryOther

	// External signals, absent until enrichment supplies them.
	Volume *float64
	Rank   *int

	// TotalScore is written by the scoring stage and consumed by the tier
	// assigner.
	TotalScore float64

	// Gate outcome, written by the enrichment stage. AdScored reports
	// whether an AdScore was attached; until then the strategy fallback
	// score applies downstream.
	Eligible   bool
	AdScore    float64
	AdScored   bool
	SkipReason string
}

// Generator is the contract every extraction strategy implements. The set
// is closed; strategies are selected by configuration at call time.
type Generator interface {
	// Name returns the strategy identifier used in configuration.
	Name() string

	// Generate extracts candidates from a title. Empty texts never leave
	// a generator; a degenerate title yields an empty slice, not an error.
	Generate(title string) []Candidate

	// FallbackScore scores a candidate when no AdScore is attached.
	FallbackScore(c Candidate) float64

	// Rank is the strategy ranking score the tier assigner sorts by. It
	// uses the AdScore when one is attached and FallbackScore otherwise.
	Rank(c Candidate) float64
}

// Options carries the per-strategy behavior flags from the configuration
// boundary.
type Options struct {
	PreferCompound bool
	AllowThreeGram bool
	BanSingles     []string
	Categories     []string
}

// Key returns the case-insensitive, whitespace-insensitive deduplication
// key for a candidate text.
func Key(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// dedupFirstWins merges candidates sharing a dedup key, keeping the first
// occurrence and accumulating frequency so it is monotonically
// non-decreasing under merges.
func dedupFirstWins(cands []Candidate) []Candidate {
	index := make(map[string]int, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		key := Key(c.Text)
		if at, ok := index[key]; ok {
			out[at].Frequency += c.Frequency
			continue
		}
		index[key] = len(out)
		out = append(out, c)
	}
	return out
}
