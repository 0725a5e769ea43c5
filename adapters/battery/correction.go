package battery

import (
	"sort"

	"symtrace/domain/stattest"
)

// rejectionAlpha is the family-wise significance level used for the
// rejection flags reported next to adjusted p-values.
const rejectionAlpha = 0.05

// AdjustPValues applies a multiple-comparison correction to raw p-values and
// returns the adjusted p-values with per-comparison rejection flags at the
// 0.05 level. With CorrectionNone the raw values are returned unchanged and
// nothing is flagged rejected.
func AdjustPValues(raw []float64, method stattest.Correction) ([]float64, []bool) {
	adjusted := make([]float64, len(raw))
	rejected := make([]bool, len(raw))

	if len(raw) == 0 {
		return adjusted, rejected
	}

	switch method {
	case stattest.CorrectionNone:
		copy(adjusted, raw)
		return adjusted, rejected
	case stattest.CorrectionBonferroni:
		m := float64(len(raw))
		for i, p := range raw {
			adjusted[i] = clampP(p * m)
		}
	case stattest.CorrectionHolm:
		holmAdjust(raw, adjusted)
	case stattest.CorrectionBenjaminiHochberg:
		bhAdjust(raw, adjusted)
	default:
		copy(adjusted, raw)
		return adjusted, rejected
	}

	for i, p := range adjusted {
		rejected[i] = p <= rejectionAlpha
	}

	return adjusted, rejected
}

// holmAdjust computes step-down Holm adjusted p-values: each adjusted value
// is at least its raw value and the adjusted sequence is monotone after
// sorting.
func holmAdjust(raw, adjusted []float64) {
	m := len(raw)
	order := ascendingOrder(raw)

	running := 0.0
	for rank, idx := range order {
		adj := clampP(float64(m-rank) * raw[idx])
		if adj < running {
			adj = running
		}
		running = adj
		adjusted[idx] = adj
	}
}

// bhAdjust computes step-up Benjamini-Hochberg FDR adjusted p-values.
func bhAdjust(raw, adjusted []float64) {
	m := len(raw)
	order := ascendingOrder(raw)

	running := 1.0
	for rank := m - 1; rank >= 0; rank-- {
		idx := order[rank]
		adj := clampP(raw[idx] * float64(m) / float64(rank+1))
		if adj > running {
			adj = running
		}
		running = adj
		adjusted[idx] = adj
	}
}

// ascendingOrder returns indices of values sorted ascending.
func ascendingOrder(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] < values[order[j]]
	})
	return order
}
