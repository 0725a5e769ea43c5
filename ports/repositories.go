package ports

import (
	"context"

	"symtrace/domain/connector"
	"symtrace/domain/core"
	"symtrace/domain/corpus"
	"symtrace/domain/stattest"
)

// DictionaryRepository persists named connector dictionaries.
type DictionaryRepository interface {
	Save(ctx context.Context, id core.DictionaryID, name string, dict connector.Dictionary) error
	Get(ctx context.Context, id core.DictionaryID) (connector.Dictionary, error)
	List(ctx context.Context) (map[core.DictionaryID]string, error)
}

// CorpusRepository persists corpora and their responses.
type CorpusRepository interface {
	Save(ctx context.Context, c *corpus.Corpus) error
	Get(ctx context.Context, id core.CorpusID) (*corpus.Corpus, error)
}

// ResultRepository persists analysis runs and their pairwise outcomes.
type ResultRepository interface {
	SaveRun(ctx context.Context, run *AnalysisRun) error
	SavePairResults(ctx context.Context, runID core.RunID, results []stattest.PairResult) error
	GetPairResults(ctx context.Context, runID core.RunID) ([]stattest.PairResult, error)
}

// AnalysisRun records the inputs of one hypothesis-testing invocation so
// results stay reproducible.
type AnalysisRun struct {
	ID           core.RunID        `db:"id" json:"id"`
	CorpusID     core.CorpusID     `db:"corpus_id" json:"corpus_id"`
	DictionaryID core.DictionaryID `db:"dictionary_id" json:"dictionary_id"`
	Variable     string            `db:"variable" json:"variable"`
	TestFamily   string            `db:"test_family" json:"test_family"`
	Correction   string            `db:"correction" json:"correction"`
	Seed         *int64            `db:"seed" json:"seed,omitempty"`
	Ignored      int               `db:"ignored" json:"ignored"`
	CreatedAt    core.Timestamp    `db:"created_at" json:"created_at"`
}
