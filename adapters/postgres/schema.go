// Package postgres persists dictionaries, corpora and analysis results.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens and pings a postgres connection.
func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS dictionaries (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	connectors JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS corpora (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS responses (
	id TEXT PRIMARY KEY,
	corpus_id TEXT NOT NULL REFERENCES corpora(id) ON DELETE CASCADE,
	position INT NOT NULL,
	header TEXT NOT NULL,
	variables JSONB NOT NULL,
	text TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_responses_corpus ON responses(corpus_id, position);

CREATE TABLE IF NOT EXISTS analysis_runs (
	id TEXT PRIMARY KEY,
	corpus_id TEXT NOT NULL,
	dictionary_id TEXT NOT NULL,
	variable TEXT NOT NULL,
	test_family TEXT NOT NULL,
	correction TEXT NOT NULL,
	seed BIGINT,
	ignored INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS pair_results (
	run_id TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
	position INT NOT NULL,
	modality_a TEXT NOT NULL,
	modality_b TEXT NOT NULL,
	n_a INT NOT NULL,
	n_b INT NOT NULL,
	statistic DOUBLE PRECISION NOT NULL,
	raw_p DOUBLE PRECISION NOT NULL,
	adjusted_p DOUBLE PRECISION NOT NULL,
	rejected BOOLEAN NOT NULL,
	PRIMARY KEY (run_id, position)
);
`

// Migrate creates the schema when missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
