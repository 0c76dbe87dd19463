package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tidewave/keytier/pkg/keytier/oracle"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndBulkMetrics(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	want := oracle.Metrics{Volume: 1200, Competition: 0.6, AdDepth: 3, CPC: 900, Rank: 2}
	if err := s.Upsert(ctx, "홍삼", want); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := s.BulkMetrics(ctx, []string{"홍삼", "없는말"})
	if err != nil {
		t.Fatalf("BulkMetrics: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got["홍삼"] != want {
		t.Errorf("metrics = %+v, want %+v", got["홍삼"], want)
	}
}

func TestUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Upsert(ctx, "홍삼", oracle.Metrics{Volume: 100}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	if err := s.Upsert(ctx, "홍삼", oracle.Metrics{Volume: 250, Rank: 5}); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	got, err := s.BulkMetrics(ctx, []string{"홍삼"})
	if err != nil {
		t.Fatalf("BulkMetrics: %v", err)
	}
	if got["홍삼"].Volume != 250 || got["홍삼"].Rank != 5 {
		t.Errorf("metrics = %+v, want the replaced row", got["홍삼"])
	}
}

func TestBulkMetricsEmptyInput(t *testing.T) {
	s := openTestStore(t)

	got, err := s.BulkMetrics(context.Background(), nil)
	if err != nil {
		t.Fatalf("BulkMetrics: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d rows for empty input, want 0", len(got))
	}
}
