package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"symtrace/domain/connector"
	"symtrace/domain/core"
	"symtrace/ports"
)

// dictionaryRepository implements the DictionaryRepository interface
type dictionaryRepository struct {
	db *sqlx.DB
}

// NewDictionaryRepository creates a new dictionary repository
func NewDictionaryRepository(db *sqlx.DB) ports.DictionaryRepository {
	return &dictionaryRepository{db: db}
}

func (r *dictionaryRepository) Save(ctx context.Context, id core.DictionaryID, name string, dict connector.Dictionary) error {
	connectorsJSON, err := json.Marshal(dict)
	if err != nil {
		return fmt.Errorf("failed to marshal connectors: %w", err)
	}

	query := `INSERT INTO dictionaries (id, name, connectors)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = $2, connectors = $3`

	if _, err := r.db.ExecContext(ctx, query, id, name, connectorsJSON); err != nil {
		return fmt.Errorf("failed to save dictionary: %w", err)
	}
	return nil
}

func (r *dictionaryRepository) Get(ctx context.Context, id core.DictionaryID) (connector.Dictionary, error) {
	var connectorsJSON []byte

	err := r.db.QueryRowContext(ctx, `SELECT connectors FROM dictionaries WHERE id = $1`, id).
		Scan(&connectorsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("dictionary not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get dictionary: %w", err)
	}

	var dict connector.Dictionary
	if err := json.Unmarshal(connectorsJSON, &dict); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connectors: %w", err)
	}
	return dict, nil
}

func (r *dictionaryRepository) List(ctx context.Context) (map[core.DictionaryID]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM dictionaries ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list dictionaries: %w", err)
	}
	defer rows.Close()

	result := make(map[core.DictionaryID]string)
	for rows.Next() {
		var id core.DictionaryID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan dictionary row: %w", err)
		}
		result[id] = name
	}
	return result, rows.Err()
}
