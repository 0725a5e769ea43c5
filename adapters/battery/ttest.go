package battery

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// TwoSampleTTest runs an independent-samples t-test: pooled-variance Student
// when equalVar is true, Welch otherwise. NaN values are removed first.
// Returns ok=false when either sample has fewer than two observations.
func TwoSampleTTest(a, b []float64, equalVar bool) (statistic, pValue float64, ok bool) {
	a, b = dropNaN(a), dropNaN(b)
	if len(a) < 2 || len(b) < 2 {
		return 0, 1, false
	}

	na, nb := float64(len(a)), float64(len(b))
	meanA, varA := meanVariance(a)
	meanB, varB := meanVariance(b)

	var t, df float64

	if equalVar {
		pooled := ((na-1)*varA + (nb-1)*varB) / (na + nb - 2)
		se := math.Sqrt(pooled * (1/na + 1/nb))
		if se == 0 {
			return 0, 1, false
		}
		t = (meanA - meanB) / se
		df = na + nb - 2
	} else {
		sa, sb := varA/na, varB/nb
		se := math.Sqrt(sa + sb)
		if se == 0 {
			return 0, 1, false
		}
		t = (meanA - meanB) / se
		// Welch-Satterthwaite degrees of freedom
		df = (sa + sb) * (sa + sb) / (sa*sa/(na-1) + sb*sb/(nb-1))
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := clampP(2 * (1 - tDist.CDF(math.Abs(t))))

	return t, p, true
}

// meanVariance computes the mean and sample variance (ddof=1).
func meanVariance(values []float64) (float64, float64) {
	n := float64(len(values))

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}

	return mean, ss / (n - 1)
}
