package battery

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"symtrace/domain/stattest"
)

// MannWhitney runs the two-sided Mann-Whitney U test on two independent
// samples, using the normal approximation with tie and continuity
// corrections. NaN values are removed first; returns nil when either sample
// is then empty.
func MannWhitney(a, b []float64) *stattest.MannWhitneyResult {
	a, b = dropNaN(a), dropNaN(b)
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	na, nb := float64(len(a)), float64(len(b))
	n := na + nb

	pooled := make([]float64, 0, len(a)+len(b))
	pooled = append(pooled, a...)
	pooled = append(pooled, b...)
	ranks := rankData(pooled)

	rankSumA := 0.0
	for i := range a {
		rankSumA += ranks[i]
	}

	u := rankSumA - na*(na+1)/2

	mu := na * nb / 2
	tieTerm := tieCorrectionSum(sortedCopy(pooled)) / (n * (n - 1))
	sigma := math.Sqrt(na * nb / 12 * ((n + 1) - tieTerm))

	p := 1.0
	if sigma > 0 {
		z := u - mu
		// Continuity correction toward the mean
		switch {
		case z > 0:
			z -= 0.5
		case z < 0:
			z += 0.5
		}
		z /= sigma

		p = clampP(2 * (1 - distuv.UnitNormal.CDF(math.Abs(z))))
	}

	return &stattest.MannWhitneyResult{
		U:      u,
		PValue: p,
		NA:     len(a),
		NB:     len(b),
	}
}
