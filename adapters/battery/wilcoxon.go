package battery

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrZeroDifferences signals that every paired difference was zero, which
// leaves the Wilcoxon signed-rank test undefined. Multi-pair callers skip
// the pair instead of failing the whole batch.
var ErrZeroDifferences = errors.New("wilcoxon: all paired differences are zero")

// ErrLengthMismatch signals paired samples of different lengths.
var ErrLengthMismatch = errors.New("wilcoxon: paired samples differ in length")

// WilcoxonSignedRank runs the two-sided Wilcoxon signed-rank test over
// matched pairs. Zero differences are dropped before ranking; the statistic
// is the smaller of the positive and negative rank sums, with a normal
// approximation p-value including tie correction.
func WilcoxonSignedRank(a, b []float64) (statistic, pValue float64, n int, err error) {
	if len(a) != len(b) {
		return 0, 0, 0, ErrLengthMismatch
	}

	var diffs []float64
	for i := range a {
		if d := a[i] - b[i]; d != 0 && !math.IsNaN(d) {
			diffs = append(diffs, d)
		}
	}

	if len(diffs) == 0 {
		return 0, 0, 0, ErrZeroDifferences
	}

	n = len(diffs)
	abs := make([]float64, n)
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}

	ranks := rankData(abs)

	wPlus, wMinus := 0.0, 0.0
	for i, d := range diffs {
		if d > 0 {
			wPlus += ranks[i]
		} else {
			wMinus += ranks[i]
		}
	}

	statistic = math.Min(wPlus, wMinus)

	nf := float64(n)
	mu := nf * (nf + 1) / 4
	variance := nf * (nf + 1) * (2*nf + 1) / 24
	variance -= tieCorrectionSum(sortedCopy(abs)) / 48

	if variance <= 0 {
		return statistic, 1, n, nil
	}

	z := (statistic - mu) / math.Sqrt(variance)
	pValue = clampP(2 * (1 - distuv.UnitNormal.CDF(math.Abs(z))))

	return statistic, pValue, n, nil
}
