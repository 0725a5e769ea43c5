// Package report renders an analysis summary as markdown and HTML.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"symtrace/domain/indicator"
	"symtrace/domain/stattest"
)

// Report collects the pieces of one analysis for rendering.
type Report struct {
	Title          string
	CorpusName     string
	Variable       string
	Correction     stattest.Correction
	Ignored        int
	ModalityStats  []indicator.ModalityStats
	KSPairs        []stattest.PairResult
	PostHocPairs   []stattest.PairResult
	Anova          *stattest.AnovaResult
	Kruskal        *stattest.KruskalResult
	Friedman       *stattest.FriedmanResult
	WilcoxonPairs  []stattest.PairedPairResult
	ExcludedBlocks []string
}

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = "Segmentation analysis"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Corpus: %s, grouping variable: %s, correction: %s.\n\n",
		r.CorpusName, r.Variable, r.Correction)

	if r.Ignored > 0 {
		fmt.Fprintf(&b, "%d responses were ignored (missing modality, empty text or no measurable segment).\n\n", r.Ignored)
	}

	if len(r.ModalityStats) > 0 {
		b.WriteString("## Indicators by modality\n\n")
		b.WriteString("| Modality | Responses | Mean LMS | Median of medians | Mean std dev | Mean CV | Short proportion |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, m := range r.ModalityStats {
			fmt.Fprintf(&b, "| %s | %d | %.3f | %.3f | %.3f | %.3f | %.3f |\n",
				m.Modality, m.Responses, m.MeanLMS, m.MedianOfMedians, m.MeanStdDev, m.MeanCV, m.MeanShortProportion)
		}
		b.WriteString("\n")
	}

	if r.Anova != nil {
		b.WriteString("## One-way ANOVA\n\n")
		fmt.Fprintf(&b, "F(%d, %d) = %.4f, p = %.4g over %d observations in %d groups.\n\n",
			r.Anova.DFBetween, r.Anova.DFWithin, r.Anova.F, r.Anova.PValue, r.Anova.TotalN, r.Anova.Groups)
	}

	if r.Kruskal != nil {
		b.WriteString("## Kruskal-Wallis\n\n")
		fmt.Fprintf(&b, "H = %.4f, p = %.4g over %d observations.\n\n",
			r.Kruskal.H, r.Kruskal.PValue, r.Kruskal.TotalN)
	}

	if len(r.KSPairs) > 0 {
		b.WriteString("## Pairwise Kolmogorov-Smirnov\n\n")
		writePairTable(&b, r.KSPairs, "D")
	}

	if len(r.PostHocPairs) > 0 {
		b.WriteString("## Post-hoc pairwise comparisons\n\n")
		writePairTable(&b, r.PostHocPairs, "Statistic")
	}

	if r.Friedman != nil {
		b.WriteString("## Friedman\n\n")
		fmt.Fprintf(&b, "Chi-square = %.4f, p = %.4g over %d blocks and %d conditions (Kendall's W = %.3f).\n\n",
			r.Friedman.ChiSquare, r.Friedman.PValue, r.Friedman.Blocks, r.Friedman.Conditions, r.Friedman.KendallW)
		if len(r.ExcludedBlocks) > 0 {
			fmt.Fprintf(&b, "Excluded incomplete blocks: %s.\n\n", strings.Join(r.ExcludedBlocks, ", "))
		}
	}

	if len(r.WilcoxonPairs) > 0 {
		b.WriteString("## Wilcoxon signed-rank post-hoc\n\n")
		b.WriteString("| Condition A | Condition B | N | W | p | p adjusted | Rejected |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, p := range r.WilcoxonPairs {
			fmt.Fprintf(&b, "| %s | %s | %d | %.4f | %.4g | %.4g | %t |\n",
				p.ConditionA, p.ConditionB, p.N, p.Statistic, p.RawP, p.AdjustedP, p.Rejected)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writePairTable(b *strings.Builder, pairs []stattest.PairResult, statName string) {
	fmt.Fprintf(b, "| Modality A | Modality B | N A | N B | %s | p | p adjusted | Rejected |\n", statName)
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, p := range pairs {
		fmt.Fprintf(b, "| %s | %s | %d | %d | %.4f | %.4g | %.4g | %t |\n",
			p.ModalityA, p.ModalityB, p.NA, p.NB, p.Statistic, p.RawP, p.AdjustedP, p.Rejected)
	}
	b.WriteString("\n")
}

// HTML renders the markdown report as an HTML fragment.
func (r *Report) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(r.Markdown()))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
