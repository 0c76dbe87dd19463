package tier

import (
	"testing"

	"github.com/tidewave/keytier/pkg/keytier/extract"
)

func scored(text string, score float64) extract.Candidate {
	return extract.Candidate{
		Text:       text,
		Length:     len([]rune(text)),
		TotalScore: score,
		AdScored:   true,
		AdScore:    score,
	}
}

func textsOf(tiers []Tier) []string {
	out := make([]string, len(tiers))
	for i, t := range tiers {
		out[i] = t.Candidate.Text
	}
	return out
}

func TestAssignOrdersByScore(t *testing.T) {
	a := Assigner{TiersPerPost: 3}
	cands := []extract.Candidate{
		scored("스틱", 0.5),
		scored("홍삼", 0.9),
		scored("제품", 0.7),
	}

	tiers := a.Assign(cands)

	want := []string{"홍삼", "제품", "스틱"}
	got := textsOf(tiers)
	if len(got) != len(want) {
		t.Fatalf("got %d tiers, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tier %d = %q, want %q", i+1, got[i], want[i])
		}
		if tiers[i].Tier != i+1 {
			t.Errorf("tier number = %d, want %d", tiers[i].Tier, i+1)
		}
	}
}

func TestAssignStableTieBreak(t *testing.T) {
	a := Assigner{TiersPerPost: 2}
	cands := []extract.Candidate{
		scored("먼저", 0.5),
		scored("나중", 0.5),
	}

	tiers := a.Assign(cands)
	if tiers[0].Candidate.Text != "먼저" || tiers[1].Candidate.Text != "나중" {
		t.Errorf("tie-break changed input order: %v", textsOf(tiers))
	}
}

func TestAssignTruncates(t *testing.T) {
	a := Assigner{TiersPerPost: 2}
	cands := []extract.Candidate{
		scored("홍삼", 0.9),
		scored("제품", 0.7),
		scored("스틱", 0.5),
	}

	tiers := a.Assign(cands)
	if len(tiers) != 2 {
		t.Fatalf("got %d tiers, want 2", len(tiers))
	}
}

func TestAssignPoolFilter(t *testing.T) {
	vol := func(v float64) *float64 { return &v }

	lowScore := scored("저점수", 0.1)
	lowScore.Volume = vol(50) // volume keeps it in the pool

	noSignal := scored("무신호", 0.1)
	noSignal.Volume = vol(3) // below the pool floor, score too low

	good := scored("홍삼", 0.8)

	a := Assigner{TiersPerPost: 5}
	tiers := a.Assign([]extract.Candidate{lowScore, noSignal, good})

	got := textsOf(tiers)
	if len(got) != 2 || got[0] != "홍삼" || got[1] != "저점수" {
		t.Errorf("pool = %v, want [홍삼 저점수]", got)
	}
}

func TestAssignSingleBestFallback(t *testing.T) {
	// Nothing passes the pool filter: the single best candidate survives.
	worst := scored("최악", 0.05)
	bad := scored("나쁨", 0.1)

	a := Assigner{TiersPerPost: 3}
	tiers := a.Assign([]extract.Candidate{worst, bad})

	if len(tiers) != 1 {
		t.Fatalf("got %d tiers, want 1", len(tiers))
	}
	if tiers[0].Candidate.Text != "나쁨" {
		t.Errorf("fallback picked %q, want the highest-scoring candidate", tiers[0].Candidate.Text)
	}
}

func TestAssignEmptyInput(t *testing.T) {
	a := Assigner{TiersPerPost: 3}
	if tiers := a.Assign(nil); len(tiers) != 0 {
		t.Errorf("got %d tiers for empty input, want 0", len(tiers))
	}

	a.AutoFill = true
	tiers := a.Assign(nil)
	if len(tiers) != 3 {
		t.Fatalf("got %d tiers with auto-fill, want 3", len(tiers))
	}
	for i, tr := range tiers {
		if !tr.Empty() {
			t.Errorf("tier %d not a sentinel: %q", i+1, tr.Candidate.Text)
		}
		if tr.Tier != i+1 {
			t.Errorf("sentinel tier number = %d, want %d", tr.Tier, i+1)
		}
	}
}

func TestAssignAutoFillPadsSentinels(t *testing.T) {
	a := Assigner{TiersPerPost: 4, AutoFill: true}
	tiers := a.Assign([]extract.Candidate{scored("홍삼", 0.8)})

	if len(tiers) != 4 {
		t.Fatalf("got %d tiers, want 4", len(tiers))
	}
	if tiers[0].Empty() {
		t.Error("first tier should hold the real candidate")
	}
	for _, tr := range tiers[1:] {
		if !tr.Empty() {
			t.Errorf("tier %d should be a sentinel, got %q", tr.Tier, tr.Candidate.Text)
		}
	}
}

func TestAssignScoreFrozen(t *testing.T) {
	cands := []extract.Candidate{scored("홍삼", 0.8)}
	a := Assigner{TiersPerPost: 1}

	tiers := a.Assign(cands)
	cands[0].TotalScore = 0.1

	if tiers[0].Score != 0.8 {
		t.Errorf("tier score = %g, want the value frozen at assignment", tiers[0].Score)
	}
}

func TestAssignDiversityFill(t *testing.T) {
	// The pool holds one long simple candidate; the leftovers hold a
	// compound and a short simple term with lower scores. Diversity fill
	// should pull both in before any sentinel.
	pooled := scored("홍삼스틱추천정리", 0.9)

	compound := scored("홍삼 스틱", 0.05)
	compound.Compound = true

	simple := scored("홍삼", 0.03)
	filler := scored("스틱제품정리", 0.04)

	a := Assigner{TiersPerPost: 4, AutoFill: true, DiversityFill: true}
	tiers := a.Assign([]extract.Candidate{pooled, compound, simple, filler})

	got := textsOf(tiers)
	want := []string{"홍삼스틱추천정리", "홍삼 스틱", "홍삼", "스틱제품정리"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tier %d = %q, want %q (full: %v)", i+1, got[i], want[i], got)
		}
	}
}

func TestAssignDiversityFillExhaustsToSentinels(t *testing.T) {
	a := Assigner{TiersPerPost: 3, AutoFill: true, DiversityFill: true}
	tiers := a.Assign([]extract.Candidate{scored("홍삼", 0.8)})

	if len(tiers) != 3 {
		t.Fatalf("got %d tiers, want 3", len(tiers))
	}
	if !tiers[1].Empty() || !tiers[2].Empty() {
		t.Error("no leftovers to fill from: remaining slots should be sentinels")
	}
}
