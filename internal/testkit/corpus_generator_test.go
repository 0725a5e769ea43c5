package testkit

import (
	"strings"
	"testing"

	"symtrace/adapters/tokenizer"
	"symtrace/domain/connector"
	"symtrace/domain/segment"
	"symtrace/internal/analysis"
)

func TestCorpusGenerator_Deterministic(t *testing.T) {
	cfg := DefaultCorpusConfig()

	first := NewCorpusGenerator(cfg).Generate()
	second := NewCorpusGenerator(cfg).Generate()

	if first != second {
		t.Error("same seed must produce identical corpora")
	}

	cfg.Seed = 7
	if NewCorpusGenerator(cfg).Generate() == first {
		t.Error("different seed must produce a different corpus")
	}
}

func TestCorpusGenerator_Shape(t *testing.T) {
	cfg := DefaultCorpusConfig()

	corp, err := NewCorpusGenerator(cfg).GenerateCorpus("synthetic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantResponses := len(cfg.Models) * cfg.Prompts
	if len(corp.Responses) != wantResponses {
		t.Fatalf("expected %d responses, got %d", wantResponses, len(corp.Responses))
	}

	models := corp.Modalities("model")
	if len(models) != len(cfg.Models) {
		t.Errorf("model modalities = %v", models)
	}
	if got := corp.Modalities("prompt"); len(got) != cfg.Prompts {
		t.Errorf("prompt modalities = %v", got)
	}

	for _, r := range corp.Responses {
		if !r.HasText() {
			t.Errorf("response %s has no text", r.Header)
		}
		if strings.Contains(r.Text, "****") {
			t.Errorf("metadata leaked into a body: %q", r.Text)
		}
	}
}

func TestCorpusGenerator_ConnectorDensityOrdersModels(t *testing.T) {
	cfg := DefaultCorpusConfig()
	cfg.Prompts = 10

	corp, err := NewCorpusGenerator(cfg).GenerateCorpus("synthetic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dict := connector.Dictionary{}
	for _, c := range connectorPool {
		dict[c] = "logique"
	}

	svc := analysis.NewService(tokenizer.NewRegexTokenizer(), nil)
	stats, _, err := svc.ModalityStatistics(corp, analysis.Options{
		Variable:   "model",
		Dictionary: dict,
		Mode:       segment.ModeConnectors,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected 3 modalities, got %d", len(stats))
	}

	byModel := make(map[string]float64)
	for _, s := range stats {
		byModel[s.Modality] = s.MeanLMS
	}

	// Later models in the config use more connectors per sentence, so their
	// mean segment length must be noticeably shorter.
	if !(byModel["gpt"] > byModel["mistral"]) {
		t.Errorf("expected gpt segments longer than mistral: %v", byModel)
	}
}
