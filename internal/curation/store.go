// Package curation persists terms the parser could not resolve against the
// lookup tables, so they can be reviewed and promoted into the dictionary.
package curation

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a PostgreSQL connection pool holding the unrecognized-terms
// table.
type Store struct {
	pool *pgxpool.Pool
}

// Term is one unrecognized term with its occurrence counters.
type Term struct {
	Term      string    `json:"term"`
	Kind      string    `json:"kind"`
	Hits      int64     `json:"hits"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the unrecognized_terms table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS unrecognized_terms (
			term       TEXT NOT NULL,
			kind       TEXT NOT NULL,
			hits       BIGINT NOT NULL DEFAULT 1,
			first_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_seen  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (term, kind)
		)`,
	)
	if err != nil {
		return fmt.Errorf("failed to create unrecognized_terms table: %w", err)
	}
	return nil
}

// RecordTerm upserts one sighting of an unrecognized term.
func (s *Store) RecordTerm(ctx context.Context, term, kind string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO unrecognized_terms (term, kind)
		 VALUES ($1, $2)
		 ON CONFLICT (term, kind) DO UPDATE SET hits = unrecognized_terms.hits + 1, last_seen = NOW()`,
		term, kind,
	)
	if err != nil {
		return fmt.Errorf("failed to record term %s: %w", term, err)
	}
	return nil
}

// ListTerms returns the most frequently seen unrecognized terms.
func (s *Store) ListTerms(ctx context.Context, limit int) ([]Term, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT term, kind, hits, first_seen, last_seen
		 FROM unrecognized_terms
		 ORDER BY hits DESC, term
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}
	defer rows.Close()

	var terms []Term
	for rows.Next() {
		var t Term
		if err := rows.Scan(&t.Term, &t.Kind, &t.Hits, &t.FirstSeen, &t.LastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan term: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}
