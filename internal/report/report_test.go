package report

import (
	"strings"
	"testing"

	"symtrace/domain/indicator"
	"symtrace/domain/stattest"
)

func sampleReport() *Report {
	return &Report{
		CorpusName: "essai.txt",
		Variable:   "model",
		Correction: stattest.CorrectionHolm,
		Ignored:    2,
		ModalityStats: []indicator.ModalityStats{
			{Modality: "claude", Responses: 6, MeanLMS: 12.5, MedianOfMedians: 11, MeanStdDev: 3.2, MeanCV: 0.26, MeanShortProportion: 0.4},
			{Modality: "gpt", Responses: 6, MeanLMS: 9.8, MedianOfMedians: 9, MeanStdDev: 2.8, MeanCV: 0.29, MeanShortProportion: 0.55},
		},
		KSPairs: []stattest.PairResult{
			{ModalityA: "claude", ModalityB: "gpt", Statistic: 0.42, RawP: 0.003, AdjustedP: 0.009, NA: 120, NB: 140, Rejected: true},
		},
		Anova: &stattest.AnovaResult{F: 5.2, PValue: 0.031, DFBetween: 1, DFWithin: 10, TotalN: 12, Groups: 2},
		Friedman: &stattest.FriedmanResult{
			ChiSquare: 6.5, PValue: 0.039, KendallW: 0.54, Blocks: 6, Conditions: 3,
		},
		WilcoxonPairs: []stattest.PairedPairResult{
			{ConditionA: "claude", ConditionB: "gpt", Statistic: 1.5, RawP: 0.04, AdjustedP: 0.12, N: 6},
		},
		ExcludedBlocks: []string{"prompt_4"},
	}
}

func TestMarkdown(t *testing.T) {
	md := sampleReport().Markdown()

	wantFragments := []string{
		"# Segmentation analysis",
		"Corpus: essai.txt, grouping variable: model, correction: holm.",
		"2 responses were ignored",
		"## Indicators by modality",
		"| claude | 6 | 12.500 |",
		"## One-way ANOVA",
		"F(1, 10) = 5.2000",
		"## Pairwise Kolmogorov-Smirnov",
		"| claude | gpt | 120 | 140 | 0.4200 |",
		"## Friedman",
		"Excluded incomplete blocks: prompt_4.",
		"## Wilcoxon signed-rank post-hoc",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(md, fragment) {
			t.Errorf("markdown missing %q", fragment)
		}
	}

	if strings.Contains(md, "## Kruskal-Wallis") {
		t.Error("absent test must not produce a section")
	}
}

func TestMarkdown_CustomTitle(t *testing.T) {
	r := &Report{Title: "Analyse du corpus", CorpusName: "c", Variable: "model"}
	if !strings.HasPrefix(r.Markdown(), "# Analyse du corpus\n") {
		t.Error("custom title not used")
	}
}

func TestHTML(t *testing.T) {
	out := string(sampleReport().HTML())

	if !strings.Contains(out, "<h1") {
		t.Error("expected a heading element")
	}
	if !strings.Contains(out, "<table>") {
		t.Error("expected the markdown tables to render as HTML tables")
	}
	if !strings.Contains(out, "claude") {
		t.Error("expected modality names in the output")
	}
}
