// Package sqlite provides an oracle.Oracle backed by a local SQLite
// snapshot of keyword metrics, for batch runs without live API access.
package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tidewave/keytier/pkg/keytier/oracle"
)

// Store is a SQLite-backed metrics snapshot.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite metrics snapshot with WAL
// mode enabled.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS keyword_metrics (
	keyword TEXT PRIMARY KEY,
	volume REAL NOT NULL DEFAULT 0,
	competition REAL NOT NULL DEFAULT 0,
	ad_depth REAL NOT NULL DEFAULT 0,
	cpc REAL NOT NULL DEFAULT 0,
	rank INTEGER NOT NULL DEFAULT 0,
	fetched_at TEXT
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Upsert inserts or replaces the metrics snapshot for a keyword.
func (s *Store) Upsert(ctx context.Context, keyword string, m oracle.Metrics) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO keyword_metrics (keyword, volume, competition, ad_depth, cpc, rank, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(keyword) DO UPDATE SET
	volume = excluded.volume,
	competition = excluded.competition,
	ad_depth = excluded.ad_depth,
	cpc = excluded.cpc,
	rank = excluded.rank,
	fetched_at = excluded.fetched_at`,
		keyword, m.Volume, m.Competition, m.AdDepth, m.CPC, m.Rank,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// BulkMetrics implements oracle.Oracle. Keywords without a snapshot row are
// absent from the result.
func (s *Store) BulkMetrics(ctx context.Context, texts []string) (map[string]oracle.Metrics, error) {
	out := make(map[string]oracle.Metrics, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	placeholders := strings.Repeat("?,", len(texts))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, len(texts))
	for i, t := range texts {
		args[i] = t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT keyword, volume, competition, ad_depth, cpc, rank
		 FROM keyword_metrics WHERE keyword IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var keyword string
		var m oracle.Metrics
		if err := rows.Scan(&keyword, &m.Volume, &m.Competition, &m.AdDepth, &m.CPC, &m.Rank); err != nil {
			return nil, err
		}
		out[keyword] = m
	}
	return out, rows.Err()
}
