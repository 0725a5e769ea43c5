package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"symtrace/domain/core"
	"symtrace/domain/stattest"
	"symtrace/ports"
)

// resultRepository implements the ResultRepository interface
type resultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *sqlx.DB) ports.ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) SaveRun(ctx context.Context, run *ports.AnalysisRun) error {
	query := `INSERT INTO analysis_runs (
		id, corpus_id, dictionary_id, variable, test_family, correction, seed, ignored, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	createdAt := run.CreatedAt.Time()
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.CorpusID, run.DictionaryID, run.Variable,
		run.TestFamily, run.Correction, run.Seed, run.Ignored, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis run: %w", err)
	}
	return nil
}

func (r *resultRepository) SavePairResults(ctx context.Context, runID core.RunID, results []stattest.PairResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `INSERT INTO pair_results (
		run_id, position, modality_a, modality_b, n_a, n_b, statistic, raw_p, adjusted_p, rejected
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for i, pr := range results {
		_, err := tx.ExecContext(ctx, insert,
			runID, i, pr.ModalityA, pr.ModalityB, pr.NA, pr.NB,
			pr.Statistic, pr.RawP, pr.AdjustedP, pr.Rejected,
		)
		if err != nil {
			return fmt.Errorf("failed to save pair result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pair results: %w", err)
	}
	return nil
}

func (r *resultRepository) GetPairResults(ctx context.Context, runID core.RunID) ([]stattest.PairResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT modality_a, modality_b, n_a, n_b, statistic, raw_p, adjusted_p, rejected
		 FROM pair_results WHERE run_id = $1 ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pair results: %w", err)
	}
	defer rows.Close()

	var results []stattest.PairResult
	for rows.Next() {
		var pr stattest.PairResult
		if err := rows.Scan(&pr.ModalityA, &pr.ModalityB, &pr.NA, &pr.NB,
			&pr.Statistic, &pr.RawP, &pr.AdjustedP, &pr.Rejected); err != nil {
			return nil, fmt.Errorf("failed to scan pair result: %w", err)
		}
		results = append(results, pr)
	}
	return results, rows.Err()
}
