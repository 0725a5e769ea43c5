package battery

import (
	"gonum.org/v1/gonum/stat/distuv"

	"symtrace/domain/stattest"
)

// Friedman runs the repeated-measures Friedman test over a complete
// blocks-by-conditions matrix: values are ranked within each block, the
// chi-square statistic is computed from the per-condition rank sums with tie
// correction, and Kendall's W = statistic / (blocks * (conditions - 1)).
//
// Returns nil when the matrix has fewer than two blocks or two conditions;
// incomplete blocks must have been excluded by the caller beforehand.
func Friedman(table stattest.PairedTable) *stattest.FriedmanResult {
	n := len(table.Blocks)
	k := len(table.Conditions)

	if n < 2 || k < 2 {
		return nil
	}

	rankSums := make([]float64, k)
	tieSum := 0.0

	for i := 0; i < n; i++ {
		ranks := rankData(table.Values[i])
		for j, r := range ranks {
			rankSums[j] += r
		}
		tieSum += tieCorrectionSum(sortedCopy(table.Values[i]))
	}

	nf, kf := float64(n), float64(k)

	stat := 0.0
	for _, r := range rankSums {
		stat += r * r
	}
	stat = 12.0/(nf*kf*(kf+1))*stat - 3*nf*(kf+1)

	// Tie correction across blocks
	if tieSum > 0 {
		c := 1 - tieSum/(nf*kf*(kf*kf-1))
		if c > 0 {
			stat /= c
		}
	}

	chi := distuv.ChiSquared{K: kf - 1}
	p := clampP(1 - chi.CDF(stat))

	return &stattest.FriedmanResult{
		ChiSquare:  stat,
		PValue:     p,
		KendallW:   stat / (nf * (kf - 1)),
		Blocks:     n,
		Conditions: k,
	}
}
