// Package testkit generates deterministic synthetic corpora for tests and
// demos.
package testkit

import (
	"fmt"
	"math/rand"
	"strings"

	"symtrace/domain/corpus"
	domcorpus "symtrace/internal/corpus"
)

// CorpusGeneratorConfig configures the synthetic corpus generator
type CorpusGeneratorConfig struct {
	Models              []string `json:"models"`
	Prompts             int      `json:"prompts"`
	SentencesPerText    int      `json:"sentences_per_text"`
	Seed                int64    `json:"seed"`
	ConnectorsPerModel  int      `json:"connectors_per_model"`
	WordsPerClauseStart int      `json:"words_per_clause_start"`
}

// DefaultCorpusConfig returns sensible defaults for corpus generation
func DefaultCorpusConfig() CorpusGeneratorConfig {
	return CorpusGeneratorConfig{
		Models:              []string{"gpt", "claude", "mistral"},
		Prompts:             6,
		SentencesPerText:    5,
		Seed:                42,
		ConnectorsPerModel:  2,
		WordsPerClauseStart: 4,
	}
}

// CorpusGenerator builds IRaMuTeQ-formatted corpora with a controllable
// density of logical connectors per model, so segmentation indicators differ
// between modalities in a known direction.
type CorpusGenerator struct {
	config CorpusGeneratorConfig
	rng    *rand.Rand
}

// NewCorpusGenerator creates a new corpus generator
func NewCorpusGenerator(config CorpusGeneratorConfig) *CorpusGenerator {
	return &CorpusGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var connectorPool = []string{"mais", "donc", "pourtant", "ensuite", "cependant", "alors"}

var wordPool = []string{
	"le", "modèle", "propose", "une", "réponse", "claire", "qui", "avance",
	"des", "arguments", "sur", "la", "question", "posée", "avec", "précision",
	"sans", "détour", "notable", "dans", "son", "développement",
}

// Generate renders the corpus as raw IRaMuTeQ text.
func (g *CorpusGenerator) Generate() string {
	var b strings.Builder

	for p := 1; p <= g.config.Prompts; p++ {
		for i, model := range g.config.Models {
			fmt.Fprintf(&b, "**** *model_%s *prompt_%d\n", model, p)
			b.WriteString(g.generateText(i))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// GenerateCorpus renders and parses the corpus in one step.
func (g *CorpusGenerator) GenerateCorpus(name string) (*corpus.Corpus, error) {
	return domcorpus.Parse(name, g.Generate())
}

// generateText produces one response. Models later in the list use more
// connectors per sentence, so their segments are shorter on average.
func (g *CorpusGenerator) generateText(modelIndex int) string {
	var sentences []string

	connectors := g.config.ConnectorsPerModel * (modelIndex + 1)

	for s := 0; s < g.config.SentencesPerText; s++ {
		clause := g.randomClause()
		for c := 0; c < connectors; c++ {
			conn := connectorPool[g.rng.Intn(len(connectorPool))]
			clause = clause + " " + conn + " " + g.randomClause()
		}
		sentences = append(sentences, clause+".")
	}

	return strings.Join(sentences, " ")
}

func (g *CorpusGenerator) randomClause() string {
	n := g.config.WordsPerClauseStart + g.rng.Intn(4)
	words := make([]string, n)
	for i := range words {
		words[i] = wordPool[g.rng.Intn(len(wordPool))]
	}
	return strings.Join(words, " ")
}
