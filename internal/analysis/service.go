// Package analysis orchestrates segmentation, indicator computation and
// grouping over a parsed corpus, feeding the statistical battery.
package analysis

import (
	"sort"
	"strings"

	"symtrace/adapters/segmentation"
	"symtrace/domain/connector"
	"symtrace/domain/corpus"
	"symtrace/domain/indicator"
	"symtrace/domain/segment"
	"symtrace/domain/stattest"
	"symtrace/internal"
	"symtrace/internal/summarizer"
	"symtrace/ports"
)

// DefaultShortThreshold is the segment word count at or below which a
// segment counts as short.
const DefaultShortThreshold = 10

// Service runs corpus-level analyses. The tokenizer is injected so the
// regex and lexicon strategies stay interchangeable.
type Service struct {
	tokenizer      ports.Tokenizer
	logger         *internal.Logger
	shortThreshold int
}

// Options configures one analysis pass over a corpus.
type Options struct {
	Variable   string
	Dictionary connector.Dictionary
	Mode       segment.SegmentationMode
	// Modalities restricts grouping to these values when non-nil.
	Modalities []string
}

// PairedOptions configures the construction of a blocks-by-conditions table.
type PairedOptions struct {
	ConditionVariable string
	BlockVariable     string
	Dictionary        connector.Dictionary
	Mode              segment.SegmentationMode
	Indicator         indicator.Indicator
	// Aggregation is "mean" or "median"; mean when empty.
	Aggregation string
	Conditions  []string
	Blocks      []string
}

func NewService(tokenizer ports.Tokenizer, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{
		tokenizer:      tokenizer,
		logger:         logger,
		shortThreshold: DefaultShortThreshold,
	}
}

// WithShortThreshold overrides the short-segment cutoff.
func (s *Service) WithShortThreshold(threshold int) *Service {
	s.shortThreshold = threshold
	return s
}

// LengthsByModality joins the texts of each modality of the chosen variable
// into one newline-separated document and computes segment word lengths over
// that document, so segments may span response boundaries and a connector-free
// response never contributes a whole-text length of its own. Responses without
// the variable or without text are skipped and counted as ignored; a modality
// whose joined text yields no measurable segments is dropped from the result.
func (s *Service) LengthsByModality(c *corpus.Corpus, opts Options) (map[string][]float64, int, error) {
	allowed := allowSet(opts.Modalities)
	texts := make(map[string][]string)
	ignored := 0

	for _, r := range c.Responses {
		modality := r.Modality(opts.Variable)
		if modality != "" && !allowed(modality) {
			continue
		}
		if modality == "" || !r.HasText() {
			ignored++
			continue
		}
		texts[modality] = append(texts[modality], r.Text)
	}

	byModality := make(map[string][]float64)
	for modality, parts := range texts {
		lengths, err := segmentation.WordLengths(strings.Join(parts, "\n"), opts.Dictionary, opts.Mode, s.tokenizer)
		if err != nil {
			return nil, 0, err
		}
		if len(lengths) == 0 {
			continue
		}

		values := make([]float64, len(lengths))
		for i, l := range lengths {
			values[i] = float64(l)
		}
		byModality[modality] = values
	}

	s.logger.Debug("grouped segment lengths for variable %s: %d modalities, %d responses ignored",
		opts.Variable, len(byModality), ignored)

	return byModality, ignored, nil
}

// SummarizeResponses computes the five indicators per response, tagged with
// the response's modality. Responses that yield no summary are counted as
// ignored, never silently dropped.
func (s *Service) SummarizeResponses(c *corpus.Corpus, opts Options) ([]indicator.ResponseIndicators, int, error) {
	allowed := allowSet(opts.Modalities)
	var rows []indicator.ResponseIndicators
	ignored := 0

	for _, r := range c.Responses {
		modality := r.Modality(opts.Variable)
		if modality != "" && !allowed(modality) {
			continue
		}
		if modality == "" || !r.HasText() {
			ignored++
			continue
		}

		lengths, err := segmentation.WordLengths(r.Text, opts.Dictionary, opts.Mode, s.tokenizer)
		if err != nil {
			return nil, 0, err
		}

		summary := summarizer.Summarize(lengths, s.shortThreshold)
		if summary == nil {
			ignored++
			continue
		}

		rows = append(rows, indicator.ResponseIndicators{
			Modality: modality,
			Summary:  *summary,
		})
	}

	return rows, ignored, nil
}

// ModalityStatistics summarizes responses and aggregates the indicators per
// modality.
func (s *Service) ModalityStatistics(c *corpus.Corpus, opts Options) ([]indicator.ModalityStats, int, error) {
	rows, ignored, err := s.SummarizeResponses(c, opts)
	if err != nil {
		return nil, 0, err
	}
	return summarizer.AggregateByModality(rows), ignored, nil
}

// IndicatorByModality groups one chosen indicator's per-response values by
// modality, the input shape of the omnibus tests.
func (s *Service) IndicatorByModality(c *corpus.Corpus, opts Options, ind indicator.Indicator) (map[string][]float64, int, error) {
	rows, ignored, err := s.SummarizeResponses(c, opts)
	if err != nil {
		return nil, 0, err
	}

	byModality := make(map[string][]float64)
	for _, row := range rows {
		byModality[row.Modality] = append(byModality[row.Modality], row.Value(ind))
	}
	return byModality, ignored, nil
}

// pairedRow is one response's indicator value with its block and condition.
type pairedRow struct {
	block     string
	condition string
	value     float64
}

// BuildPairedTable aggregates per-response indicator values into a complete
// blocks-by-conditions table for the repeated-measures tests. Blocks missing
// a value for any condition are excluded and reported so the caller can
// surface them. Responses missing either variable or yielding no indicators
// are counted as ignored.
func (s *Service) BuildPairedTable(c *corpus.Corpus, opts PairedOptions) (stattest.PairedTable, []string, int, error) {
	allowedCond := allowSet(opts.Conditions)
	allowedBlock := allowSet(opts.Blocks)

	var rows []pairedRow
	ignored := 0

	for _, r := range c.Responses {
		condition := r.Modality(opts.ConditionVariable)
		block := r.Modality(opts.BlockVariable)
		if (condition != "" && !allowedCond(condition)) || (block != "" && !allowedBlock(block)) {
			continue
		}
		if condition == "" || block == "" || !r.HasText() {
			ignored++
			continue
		}

		lengths, err := segmentation.WordLengths(r.Text, opts.Dictionary, opts.Mode, s.tokenizer)
		if err != nil {
			return stattest.PairedTable{}, nil, 0, err
		}

		summary := summarizer.Summarize(lengths, s.shortThreshold)
		if summary == nil {
			ignored++
			continue
		}

		rows = append(rows, pairedRow{
			block:     block,
			condition: condition,
			value:     summary.Value(opts.Indicator),
		})
	}

	table, excluded := assemblePairedTable(rows, opts.Aggregation)
	return table, excluded, ignored, nil
}

// assemblePairedTable reduces each block-condition cell with the chosen
// aggregation, then drops incomplete blocks.
func assemblePairedTable(rows []pairedRow, aggregation string) (stattest.PairedTable, []string) {
	cells := make(map[string]map[string][]float64)
	condSeen := make(map[string]bool)

	for _, row := range rows {
		if cells[row.block] == nil {
			cells[row.block] = make(map[string][]float64)
		}
		cells[row.block][row.condition] = append(cells[row.block][row.condition], row.value)
		condSeen[row.condition] = true
	}

	var conditions []string
	for cond := range condSeen {
		conditions = append(conditions, cond)
	}
	sort.Strings(conditions)

	var blocks []string
	for block := range cells {
		blocks = append(blocks, block)
	}
	sort.Strings(blocks)

	var kept []string
	var excluded []string
	var values [][]float64

	for _, block := range blocks {
		row := make([]float64, len(conditions))
		complete := true
		for j, cond := range conditions {
			cell := cells[block][cond]
			if len(cell) == 0 {
				complete = false
				break
			}
			row[j] = aggregate(cell, aggregation)
		}
		if complete {
			kept = append(kept, block)
			values = append(values, row)
		} else {
			excluded = append(excluded, block)
		}
	}

	return stattest.PairedTable{
		Blocks:     kept,
		Conditions: conditions,
		Values:     values,
	}, excluded
}

func aggregate(values []float64, method string) float64 {
	if method == "median" {
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		n := len(sorted)
		if n%2 == 1 {
			return sorted[n/2]
		}
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// allowSet returns a membership predicate that accepts everything when the
// restriction list is empty.
func allowSet(values []string) func(string) bool {
	if len(values) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return func(v string) bool { return set[v] }
}
