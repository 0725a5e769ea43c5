package battery

import (
	"gonum.org/v1/gonum/stat/distuv"

	"symtrace/domain/stattest"
)

// KruskalWallis runs the rank-based Kruskal-Wallis H test across the groups.
// NaN values are removed per group; returns nil when fewer than two
// non-empty groups remain. TotalN counts every raw observation.
func KruskalWallis(byGroup map[string][]float64) *stattest.KruskalResult {
	rawTotal := 0
	var groups [][]float64

	for _, label := range sortedKeys(byGroup) {
		rawTotal += len(byGroup[label])
		if cleaned := dropNaN(byGroup[label]); len(cleaned) > 0 {
			groups = append(groups, cleaned)
		}
	}

	if len(groups) < 2 {
		return nil
	}

	n := 0
	var pooled []float64
	for _, g := range groups {
		n += len(g)
		pooled = append(pooled, g...)
	}

	ranks := rankData(pooled)

	h := 0.0
	offset := 0
	for _, g := range groups {
		rankSum := 0.0
		for i := range g {
			rankSum += ranks[offset+i]
		}
		h += rankSum * rankSum / float64(len(g))
		offset += len(g)
	}

	nf := float64(n)
	h = 12.0/(nf*(nf+1))*h - 3*(nf+1)

	// Tie correction
	if ties := tieCorrectionSum(sortedCopy(pooled)); ties > 0 {
		c := 1 - ties/(nf*nf*nf-nf)
		if c > 0 {
			h /= c
		}
	}

	df := float64(len(groups) - 1)
	chi := distuv.ChiSquared{K: df}
	p := clampP(1 - chi.CDF(h))

	return &stattest.KruskalResult{
		H:      h,
		PValue: p,
		TotalN: rawTotal,
	}
}
