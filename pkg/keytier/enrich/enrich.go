// Package enrich applies the score-first gate to extracted candidates. It
// issues one oracle round trip per title and degrades to pass-through
// whenever enrichment fails: a candidate is never silently dropped by this
// stage.
package enrich

import (
	"context"

	"github.com/tidewave/keytier/pkg/keytier/adscore"
	"github.com/tidewave/keytier/pkg/keytier/extract"
	"github.com/tidewave/keytier/pkg/keytier/metric"
	"github.com/tidewave/keytier/pkg/keytier/oracle"
)

// ReasonEvalFailed marks candidates that passed through because the
// AdScore evaluation could not run.
const ReasonEvalFailed = "AdScore evaluation failed"

// Adapter fetches enrichment metrics and writes gate verdicts onto
// candidates.
type Adapter struct {
	Oracle oracle.Oracle
}

// Fetch issues the single enrichment round trip for a title's candidate
// batch. The returned map may cover any subset of the texts.
func (a *Adapter) Fetch(ctx context.Context, cands []extract.Candidate) (map[string]oracle.Metrics, error) {
	if a.Oracle == nil {
		return nil, nil
	}
	texts := make([]string, len(cands))
	for i, c := range cands {
		texts[i] = c.Text
	}
	return a.Oracle.BulkMetrics(ctx, texts)
}

// Score writes the external signals and the gate verdict onto every
// candidate. Candidates without metrics evaluate against all-zero signals,
// which the gate's zero-signal rule cuts.
func Score(cands []extract.Candidate, metrics map[string]oracle.Metrics, scorer *adscore.Scorer) {
	for i := range cands {
		c := &cands[i]

		var raw metric.Raw
		if m, ok := metrics[c.Text]; ok {
			raw = metric.Raw{
				Volume:      m.Volume,
				Competition: m.Competition,
				AdDepth:     m.AdDepth,
				CPC:         m.CPC,
			}
			vol := m.Volume
			c.Volume = &vol
			if m.Rank != 0 {
				rank := m.Rank
				c.Rank = &rank
			}
		} else if c.Volume != nil {
			raw.Volume = *c.Volume
		}

		ev := scorer.Evaluate(raw)
		c.AdScore = ev.AdScore
		c.AdScored = true
		c.Eligible = ev.Eligible
		c.SkipReason = ev.SkipReason
	}
}

// PassThrough marks every candidate eligible with a diagnostic reason and
// no attached score. Used when the oracle or the scorer is unavailable:
// enrichment failure degrades, it never fails the pipeline.
func PassThrough(cands []extract.Candidate) {
	for i := range cands {
		cands[i].Eligible = true
		cands[i].AdScored = false
		cands[i].AdScore = 0
		cands[i].SkipReason = ReasonEvalFailed
	}
}

// SkipGate marks every candidate eligible with no score attached, for
// configurations where the score-first gate is disabled. The strategy
// fallback scoring applies downstream.
func SkipGate(cands []extract.Candidate) {
	for i := range cands {
		cands[i].Eligible = true
		cands[i].AdScored = false
		cands[i].SkipReason = ""
	}
}
