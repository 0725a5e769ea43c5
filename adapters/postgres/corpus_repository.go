package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"symtrace/domain/core"
	"symtrace/domain/corpus"
	"symtrace/ports"
)

// corpusRepository implements the CorpusRepository interface
type corpusRepository struct {
	db *sqlx.DB
}

// NewCorpusRepository creates a new corpus repository
func NewCorpusRepository(db *sqlx.DB) ports.CorpusRepository {
	return &corpusRepository{db: db}
}

// Save stores the corpus and replaces its responses in one transaction.
func (r *corpusRepository) Save(ctx context.Context, c *corpus.Corpus) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO corpora (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = $2`
	if _, err := tx.ExecContext(ctx, query, c.ID, c.Name); err != nil {
		return fmt.Errorf("failed to save corpus: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM responses WHERE corpus_id = $1`, c.ID); err != nil {
		return fmt.Errorf("failed to clear responses: %w", err)
	}

	insert := `INSERT INTO responses (id, corpus_id, position, header, variables, text)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i, resp := range c.Responses {
		variablesJSON, err := json.Marshal(resp.Variables)
		if err != nil {
			return fmt.Errorf("failed to marshal variables: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insert, resp.ID, c.ID, i, resp.Header, variablesJSON, resp.Text); err != nil {
			return fmt.Errorf("failed to save response %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit corpus: %w", err)
	}
	return nil
}

// Get loads a corpus with its responses in original order.
func (r *corpusRepository) Get(ctx context.Context, id core.CorpusID) (*corpus.Corpus, error) {
	var c corpus.Corpus

	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM corpora WHERE id = $1`, id).
		Scan(&c.ID, &c.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("corpus not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get corpus: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, header, variables, text FROM responses WHERE corpus_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resp corpus.Response
		var variablesJSON []byte
		if err := rows.Scan(&resp.ID, &resp.Header, &variablesJSON, &resp.Text); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		if err := json.Unmarshal(variablesJSON, &resp.Variables); err != nil {
			return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
		}
		c.Responses = append(c.Responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &c, nil
}
