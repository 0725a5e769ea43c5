// Package summarizer computes the per-response and per-modality summaries of
// segment word lengths: mean length (LMS), dispersion, median and the share
// of short segments.
package summarizer

import (
	"sort"

	"github.com/montanaflynn/stats"

	"symtrace/domain/indicator"
)

// Summarize reduces one response's segment lengths to the five indicators.
// Returns nil when lengths is empty; the caller must then count the response
// as ignored. The standard deviation is the population one (ddof=0) and the
// coefficient of variation is 0 when the mean is 0 instead of an error.
func Summarize(lengths []int, shortThreshold int) *indicator.Summary {
	if len(lengths) == 0 {
		return nil
	}

	values := make([]float64, len(lengths))
	for i, l := range lengths {
		values[i] = float64(l)
	}

	mean, _ := stats.Mean(values)
	stdDev, _ := stats.StandardDeviationPopulation(values)
	median, _ := stats.Median(values)

	cv := 0.0
	if mean != 0 {
		cv = stdDev / mean
	}

	shortProportion := 0.0
	if shortThreshold > 0 {
		short := 0
		for _, v := range values {
			if v <= float64(shortThreshold) {
				short++
			}
		}
		shortProportion = float64(short) / float64(len(values))
	}

	return &indicator.Summary{
		LMS:             mean,
		StdDev:          stdDev,
		CV:              cv,
		Median:          median,
		ShortProportion: shortProportion,
	}
}

// AggregateByModality groups response indicators by modality and reduces each
// group: mean of LMS, median of medians, mean of the remaining indicators,
// plus the response count. Output is sorted by modality ascending.
func AggregateByModality(responses []indicator.ResponseIndicators) []indicator.ModalityStats {
	grouped := make(map[string][]indicator.ResponseIndicators)
	for _, r := range responses {
		grouped[r.Modality] = append(grouped[r.Modality], r)
	}

	result := make([]indicator.ModalityStats, 0, len(grouped))

	for modality, rows := range grouped {
		lms := make([]float64, len(rows))
		medians := make([]float64, len(rows))
		stdDevs := make([]float64, len(rows))
		cvs := make([]float64, len(rows))
		shorts := make([]float64, len(rows))

		for i, row := range rows {
			lms[i] = row.LMS
			medians[i] = row.Median
			stdDevs[i] = row.StdDev
			cvs[i] = row.CV
			shorts[i] = row.ShortProportion
		}

		meanLMS, _ := stats.Mean(lms)
		medianOfMedians, _ := stats.Median(medians)
		meanStdDev, _ := stats.Mean(stdDevs)
		meanCV, _ := stats.Mean(cvs)
		meanShort, _ := stats.Mean(shorts)

		result = append(result, indicator.ModalityStats{
			Modality:            modality,
			MeanLMS:             meanLMS,
			MedianOfMedians:     medianOfMedians,
			MeanStdDev:          meanStdDev,
			MeanCV:              meanCV,
			MeanShortProportion: meanShort,
			Responses:           len(rows),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Modality < result[j].Modality
	})

	return result
}
