package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/tidewave/keytier/internal/feed"
	"github.com/tidewave/keytier/internal/searchad"
	"github.com/tidewave/keytier/pkg/keytier"
	"github.com/tidewave/keytier/pkg/keytier/config"
	"github.com/tidewave/keytier/pkg/keytier/oracle"
	oraclesqlite "github.com/tidewave/keytier/pkg/keytier/oracle/sqlite"
)

type report struct {
	Strategy string       `json:"strategy"`
	Posts    []postReport `json:"posts"`
}

type postReport struct {
	RunID  string     `json:"run_id"`
	PostID string     `json:"post_id"`
	Title  string     `json:"title"`
	Tiers  []tierJSON `json:"tiers"`
}

type tierJSON struct {
	Tier       int     `json:"tier"`
	Keyword    string  `json:"keyword"`
	Score      float64 `json:"score"`
	AdScore    float64 `json:"ad_score,omitempty"`
	SkipReason string  `json:"skip_reason,omitempty"`
}

func main() {
	var (
		posts      = flag.String("posts", "", "Path to posts JSONL file (required)")
		profile    = flag.String("profile", "", "Profile YAML file (default profile if omitted)")
		strategy   = flag.String("strategy", "", "Override extraction strategy (lk|ngrams|hybrid)")
		metricsDB  = flag.String("metrics-db", "", "Optional: SQLite keyword metrics snapshot")
		adBase     = flag.String("ad-base", "", "Optional: SearchAd-style metrics API base URL")
		adAPIKey   = flag.String("ad-api-key", "", "Optional: API key for the metrics API")
		adSecret   = flag.String("ad-secret", "", "Optional: HMAC signing key for the metrics API")
		adCustomer = flag.String("ad-customer", "", "Optional: customer ID for the metrics API")
	)
	flag.Parse()

	if *posts == "" {
		log.Fatal("--posts required")
	}

	ctx := context.Background()

	prof := config.Default()
	if *profile != "" {
		loaded, err := config.Load(*profile)
		if err != nil {
			log.Fatalf("load profile: %v", err)
		}
		prof = loaded
	}
	if *strategy != "" {
		prof.Strategy = *strategy
		if err := prof.Validate(); err != nil {
			log.Fatalf("invalid strategy override: %v", err)
		}
	}

	var orc oracle.Oracle
	switch {
	case *metricsDB != "":
		store, err := oraclesqlite.Open(ctx, *metricsDB)
		if err != nil {
			log.Fatalf("open metrics db: %v", err)
		}
		defer store.Close()
		orc = store
	case *adBase != "":
		orc = &searchad.Client{
			BaseURL:    *adBase,
			APIKey:     *adAPIKey,
			SecretKey:  *adSecret,
			CustomerID: *adCustomer,
		}
	}

	items, err := feed.LoadFromJSONL(*posts)
	if err != nil {
		log.Fatalf("load posts: %v", err)
	}

	engine := keytier.New(keytier.Options{Oracle: orc})

	rep := report{Strategy: prof.Strategy}
	for _, item := range items {
		result, err := engine.ProcessTitle(ctx, keytier.Post{
			ID:      item.ID,
			Title:   item.Title,
			Channel: item.Channel,
		}, prof)
		if err != nil {
			log.Printf("process %q: %v", item.Title, err)
			continue
		}
		rep.Posts = append(rep.Posts, toPostReport(result))
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}

func toPostReport(r keytier.Result) postReport {
	pr := postReport{
		RunID:  r.ID,
		PostID: r.PostID,
		Title:  r.Title,
	}
	for _, t := range r.Tiers {
		entry := tierJSON{
			Tier:    t.Tier,
			Keyword: t.Candidate.Text,
			Score:   t.Score,
		}
		if t.Candidate.AdScored {
			entry.AdScore = t.Candidate.AdScore
		}
		entry.SkipReason = t.Candidate.SkipReason
		pr.Tiers = append(pr.Tiers, entry)
	}
	return pr
}
