// Package battery implements the hypothesis-testing suite operating on
// per-response indicator values and segment length distributions. Every test
// is a pure function; insufficient data yields a nil result, never an error.
package battery

import (
	"math"
	"sort"
)

// dropNaN returns the values with NaNs removed.
func dropNaN(values []float64) []float64 {
	cleaned := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			cleaned = append(cleaned, v)
		}
	}
	return cleaned
}

// sortedKeys returns the group labels in ascending order.
func sortedKeys(groups map[string][]float64) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedCopy returns an ascending copy of values.
func sortedCopy(values []float64) []float64 {
	c := make([]float64, len(values))
	copy(c, values)
	sort.Float64s(c)
	return c
}

// rankData assigns 1-based ranks to data, averaging ties.
func rankData(data []float64) []float64 {
	n := len(data)
	ranks := make([]float64, n)

	type pair struct {
		value float64
		index int
	}

	pairs := make([]pair, n)
	for i, v := range data {
		pairs[i] = pair{v, i}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	i := 0
	for i < n {
		j := i
		for j < n-1 && pairs[j+1].value == pairs[i].value {
			j++
		}

		// Average rank for the tied run
		avgRank := float64(i+j)/2.0 + 1
		for k := i; k <= j; k++ {
			ranks[pairs[k].index] = avgRank
		}

		i = j + 1
	}

	return ranks
}

// tieCorrectionSum computes sum(t^3 - t) over tied runs in sorted data.
func tieCorrectionSum(sorted []float64) float64 {
	total := 0.0
	i := 0

	for i < len(sorted) {
		j := i
		for j < len(sorted)-1 && sorted[j+1] == sorted[i] {
			j++
		}

		t := float64(j - i + 1)
		if t > 1 {
			total += t*t*t - t
		}

		i = j + 1
	}

	return total
}

// clampP keeps a p-value inside [0, 1].
func clampP(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
