// Package export renders analysis results as CSV, XLSX and JSON payloads
// for download endpoints and CLI output.
package export

import (
	"math"
	"strconv"

	"symtrace/domain/indicator"
	"symtrace/domain/stattest"
)

// Table is a rendered tabular view of one result set.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

func fToStr(x float64, decimals int) string {
	if math.IsNaN(x) {
		return ""
	}
	p := math.Pow10(decimals)
	x = math.Round(x*p) / p
	return strconv.FormatFloat(x, 'f', decimals, 64)
}

// ModalityStatsTable renders the per-modality indicator aggregates.
func ModalityStatsTable(rows []indicator.ModalityStats) Table {
	t := Table{
		Name:    "modality_statistics",
		Headers: []string{"modality", "responses", "mean_lms", "median_of_medians", "mean_std_dev", "mean_cv", "mean_short_proportion"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Modality,
			strconv.Itoa(r.Responses),
			fToStr(r.MeanLMS, 4),
			fToStr(r.MedianOfMedians, 4),
			fToStr(r.MeanStdDev, 4),
			fToStr(r.MeanCV, 4),
			fToStr(r.MeanShortProportion, 4),
		})
	}
	return t
}

// PairResultsTable renders pairwise comparison outcomes.
func PairResultsTable(name string, pairs []stattest.PairResult) Table {
	t := Table{
		Name:    name,
		Headers: []string{"modality_a", "modality_b", "n_a", "n_b", "statistic", "p_value", "p_adjusted", "rejected"},
	}
	for _, p := range pairs {
		t.Rows = append(t.Rows, []string{
			p.ModalityA,
			p.ModalityB,
			strconv.Itoa(p.NA),
			strconv.Itoa(p.NB),
			fToStr(p.Statistic, 6),
			fToStr(p.RawP, 6),
			fToStr(p.AdjustedP, 6),
			strconv.FormatBool(p.Rejected),
		})
	}
	return t
}

// PairedPairResultsTable renders post-hoc paired comparisons.
func PairedPairResultsTable(pairs []stattest.PairedPairResult) Table {
	t := Table{
		Name:    "wilcoxon_posthoc",
		Headers: []string{"condition_a", "condition_b", "n", "statistic", "p_value", "p_adjusted", "rejected"},
	}
	for _, p := range pairs {
		t.Rows = append(t.Rows, []string{
			p.ConditionA,
			p.ConditionB,
			strconv.Itoa(p.N),
			fToStr(p.Statistic, 6),
			fToStr(p.RawP, 6),
			fToStr(p.AdjustedP, 6),
			strconv.FormatBool(p.Rejected),
		})
	}
	return t
}

// PairedTableTable renders the blocks-by-conditions indicator table.
func PairedTableTable(table stattest.PairedTable) Table {
	t := Table{
		Name:    "paired_table",
		Headers: append([]string{"block"}, table.Conditions...),
	}
	for i, block := range table.Blocks {
		row := []string{block}
		for _, v := range table.Values[i] {
			row = append(row, fToStr(v, 4))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ResponseIndicatorsTable renders the per-response indicator values.
func ResponseIndicatorsTable(rows []indicator.ResponseIndicators) Table {
	t := Table{
		Name:    "response_indicators",
		Headers: []string{"modality", "lms", "std_dev", "cv", "median", "short_proportion"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Modality,
			fToStr(r.LMS, 4),
			fToStr(r.StdDev, 4),
			fToStr(r.CV, 4),
			fToStr(r.Median, 4),
			fToStr(r.ShortProportion, 4),
		})
	}
	return t
}
