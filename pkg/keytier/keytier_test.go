package keytier

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tidewave/keytier/pkg/keytier/config"
	"github.com/tidewave/keytier/pkg/keytier/enrich"
	"github.com/tidewave/keytier/pkg/keytier/internalerr"
	"github.com/tidewave/keytier/pkg/keytier/oracle"
	"github.com/tidewave/keytier/pkg/keytier/oracle/memoracle"
)

func TestProcessTitlePassThroughWithoutOracle(t *testing.T) {
	e := New(Options{})
	profile := config.Default() // lk, 4 tiers, gate on, auto-fill on

	res, err := e.ProcessTitle(context.Background(), Post{ID: "p1", Title: "홍삼 스틱 추천 제품"}, profile)
	if err != nil {
		t.Fatalf("ProcessTitle: %v", err)
	}

	if len(res.Tiers) != profile.TiersPerPost {
		t.Fatalf("got %d tiers, want %d", len(res.Tiers), profile.TiersPerPost)
	}
	if res.PostID != "p1" || res.Title != "홍삼 스틱 추천 제품" || res.Strategy != config.StrategyLK {
		t.Errorf("result metadata = %q/%q/%q", res.PostID, res.Title, res.Strategy)
	}
	if len(res.ID) != 26 {
		t.Errorf("result ID %q is not a ULID", res.ID)
	}

	// No oracle: the gate degrades to pass-through and the pool filter's
	// single-best fallback keeps exactly one real candidate.
	first := res.Tiers[0]
	if first.Empty() {
		t.Fatal("first tier should hold a real candidate")
	}
	if first.Candidate.SkipReason != enrich.ReasonEvalFailed {
		t.Errorf("skip reason = %q, want %q", first.Candidate.SkipReason, enrich.ReasonEvalFailed)
	}
	if first.Candidate.AdScored {
		t.Error("pass-through candidates carry no attached AdScore")
	}
	for _, tr := range res.Tiers[1:] {
		if !tr.Empty() {
			t.Errorf("tier %d should be a sentinel, got %q", tr.Tier, tr.Candidate.Text)
		}
	}
}

func TestProcessTitleDeterministicTiers(t *testing.T) {
	e := New(Options{})
	profile := config.Default()
	post := Post{ID: "p1", Title: "홍삼 스틱 추천 제품"}

	a, err := e.ProcessTitle(context.Background(), post, profile)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := e.ProcessTitle(context.Background(), post, profile)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if a.ID == b.ID {
		t.Error("each call should mint a fresh result ID")
	}
	if !reflect.DeepEqual(a.Tiers, b.Tiers) {
		t.Errorf("tiers differ between identical runs:\n%v\n%v", a.Tiers, b.Tiers)
	}
}

func TestProcessTitleHardGate(t *testing.T) {
	mem := memoracle.New()
	mem.Set("홍삼", oracle.Metrics{Volume: 5000, Competition: 0.8, AdDepth: 4, CPC: 1500})
	mem.Set("스틱", oracle.Metrics{Volume: 20, Competition: 0.1, AdDepth: 1})

	e := New(Options{Oracle: mem})

	profile := config.Default()
	profile.GateMode = "hard"
	profile.TierAutoFill = false

	res, err := e.ProcessTitle(context.Background(), Post{Title: "홍삼 스틱"}, profile)
	if err != nil {
		t.Fatalf("ProcessTitle: %v", err)
	}

	// Hard mode cuts 스틱 under the score floor and the uncovered
	// compound on the zero-signal rule; only 홍삼 survives.
	if len(res.Tiers) != 1 {
		t.Fatalf("got %d tiers, want 1: %+v", len(res.Tiers), res.Tiers)
	}
	if res.Tiers[0].Candidate.Text != "홍삼" {
		t.Errorf("survivor = %q, want 홍삼", res.Tiers[0].Candidate.Text)
	}
}

func TestProcessTitleSoftGateKeepsWeakSignals(t *testing.T) {
	mem := memoracle.New()
	mem.Set("홍삼", oracle.Metrics{Volume: 5000, Competition: 0.8, AdDepth: 4, CPC: 1500})
	mem.Set("스틱", oracle.Metrics{Volume: 20, Competition: 0.1, AdDepth: 1})

	e := New(Options{Oracle: mem})

	profile := config.Default() // soft mode
	profile.TierAutoFill = false

	res, err := e.ProcessTitle(context.Background(), Post{Title: "홍삼 스틱"}, profile)
	if err != nil {
		t.Fatalf("ProcessTitle: %v", err)
	}

	texts := make(map[string]bool)
	for _, tr := range res.Tiers {
		texts[tr.Candidate.Text] = true
	}
	if !texts["홍삼"] || !texts["스틱"] {
		t.Errorf("soft mode should keep both signal-bearing candidates, got %v", texts)
	}
	if texts["홍삼 스틱"] {
		t.Error("zero-signal candidate should be cut in soft mode too")
	}
}

func TestProcessTitleForceFillRelaxesGate(t *testing.T) {
	// Strong enough to pass the halved floor, not the full one.
	mem := memoracle.New()
	mem.Set("홍삼", oracle.Metrics{Volume: 800, Competition: 0.4, AdDepth: 2, CPC: 500})

	profile := config.Default()
	profile.GateMode = "hard"
	profile.Thresholds.ScoreMin = 0.5
	profile.TierAutoFill = false

	e := New(Options{Oracle: mem})
	post := Post{Title: "홍삼 스틱"}

	res, err := e.ProcessTitle(context.Background(), post, profile)
	if err != nil {
		t.Fatalf("ProcessTitle: %v", err)
	}
	if len(res.Tiers) != 0 {
		t.Fatalf("without force-fill the gate should empty the list, got %+v", res.Tiers)
	}

	profile.ForceFill = true
	res, err = e.ProcessTitle(context.Background(), post, profile)
	if err != nil {
		t.Fatalf("ProcessTitle with force-fill: %v", err)
	}
	if len(res.Tiers) != 1 || res.Tiers[0].Candidate.Text != "홍삼" {
		t.Fatalf("force-fill should admit 홍삼 under the relaxed floor, got %+v", res.Tiers)
	}
}

func TestProcessTitleGateDisabled(t *testing.T) {
	mem := memoracle.New()
	mem.Fail(errors.New("should not be called"))

	profile := config.Default()
	profile.ScoreFirstGate = false
	profile.TierAutoFill = false

	e := New(Options{Oracle: mem})
	res, err := e.ProcessTitle(context.Background(), Post{Title: "홍삼 스틱"}, profile)
	if err != nil {
		t.Fatalf("ProcessTitle: %v", err)
	}

	if len(res.Tiers) == 0 {
		t.Fatal("disabled gate should still yield tiers from fallback scoring")
	}
	for _, tr := range res.Tiers {
		if tr.Candidate.SkipReason != "" {
			t.Errorf("%q skip reason = %q, want empty", tr.Candidate.Text, tr.Candidate.SkipReason)
		}
		if tr.Candidate.AdScored {
			t.Errorf("%q should carry no AdScore with the gate off", tr.Candidate.Text)
		}
	}
}

func TestProcessTitleEmptyTitle(t *testing.T) {
	e := New(Options{})

	profile := config.Default()
	res, err := e.ProcessTitle(context.Background(), Post{Title: ""}, profile)
	if err != nil {
		t.Fatalf("ProcessTitle: %v", err)
	}
	if len(res.Tiers) != profile.TiersPerPost {
		t.Fatalf("got %d tiers, want %d sentinels", len(res.Tiers), profile.TiersPerPost)
	}
	for _, tr := range res.Tiers {
		if !tr.Empty() {
			t.Errorf("tier %d not a sentinel", tr.Tier)
		}
	}

	profile.TierAutoFill = false
	res, err = e.ProcessTitle(context.Background(), Post{Title: ""}, profile)
	if err != nil {
		t.Fatalf("ProcessTitle without auto-fill: %v", err)
	}
	if len(res.Tiers) != 0 {
		t.Errorf("got %d tiers, want none", len(res.Tiers))
	}
}

func TestProcessTitleUnknownStrategy(t *testing.T) {
	e := New(Options{})
	profile := config.Default()
	profile.Strategy = "markov"

	if _, err := e.ProcessTitle(context.Background(), Post{Title: "홍삼"}, profile); !errors.Is(err, internalerr.ErrUnknownStrategy) {
		t.Fatalf("error = %v, want ErrUnknownStrategy", err)
	}
}

func TestProcessTitleHybridStrategy(t *testing.T) {
	e := New(Options{})

	profile := config.Default()
	profile.Strategy = config.StrategyHybrid

	res, err := e.ProcessTitle(context.Background(), Post{Title: "홍삼 스틱 추천 제품"}, profile)
	if err != nil {
		t.Fatalf("ProcessTitle: %v", err)
	}
	if res.Strategy != config.StrategyHybrid {
		t.Errorf("strategy = %q, want hybrid", res.Strategy)
	}
	if len(res.Tiers) != profile.TiersPerPost {
		t.Fatalf("got %d tiers, want %d", len(res.Tiers), profile.TiersPerPost)
	}
}
