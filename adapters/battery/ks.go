package battery

import (
	"math"

	"symtrace/domain/stattest"
)

// BuildECDF computes the empirical cumulative distribution function of the
// values: one point per distinct value, cumulative proportion at that value.
func BuildECDF(values []float64) []stattest.ECDFPoint {
	if len(values) == 0 {
		return nil
	}

	sorted := sortedCopy(values)
	n := float64(len(sorted))

	var points []stattest.ECDFPoint
	count := 0

	for i, v := range sorted {
		count++
		if i == len(sorted)-1 || sorted[i+1] != v {
			points = append(points, stattest.ECDFPoint{
				Length:     v,
				Cumulative: float64(count) / n,
			})
		}
	}

	return points
}

// maxECDFGap walks the union of both supports in ascending order and locates
// the first value at which the absolute ECDF distance is maximal.
func maxECDFGap(ecdfA, ecdfB []stattest.ECDFPoint) *stattest.MaxGap {
	if len(ecdfA) == 0 || len(ecdfB) == 0 {
		return nil
	}

	gap := &stattest.MaxGap{}
	propA, propB := 0.0, 0.0
	i, j := 0, 0

	for i < len(ecdfA) || j < len(ecdfB) {
		var value float64
		switch {
		case i >= len(ecdfA):
			value = ecdfB[j].Length
		case j >= len(ecdfB):
			value = ecdfA[i].Length
		default:
			value = math.Min(ecdfA[i].Length, ecdfB[j].Length)
		}

		if i < len(ecdfA) && ecdfA[i].Length == value {
			propA = ecdfA[i].Cumulative
			i++
		}
		if j < len(ecdfB) && ecdfB[j].Length == value {
			propB = ecdfB[j].Cumulative
			j++
		}

		if d := math.Abs(propA - propB); d > gap.Gap {
			gap.Length = value
			gap.ProportionA = propA
			gap.ProportionB = propB
			gap.Gap = d
		}
	}

	return gap
}

// ksStatistic computes the two-sample KS statistic D over two ascending
// slices without materializing the ECDFs.
func ksStatistic(sortedA, sortedB []float64) float64 {
	na, nb := float64(len(sortedA)), float64(len(sortedB))
	d := 0.0
	i, j := 0, 0

	for i < len(sortedA) && j < len(sortedB) {
		v := math.Min(sortedA[i], sortedB[j])
		for i < len(sortedA) && sortedA[i] == v {
			i++
		}
		for j < len(sortedB) && sortedB[j] == v {
			j++
		}

		if gap := math.Abs(float64(i)/na - float64(j)/nb); gap > d {
			d = gap
		}
	}

	return d
}

// ksPValue approximates the two-sided asymptotic p-value of the KS statistic
// using the Kolmogorov distribution series.
func ksPValue(d float64, na, nb int) float64 {
	if na == 0 || nb == 0 {
		return 1.0
	}

	en := math.Sqrt(float64(na) * float64(nb) / float64(na+nb))
	lambda := (en + 0.12 + 0.11/en) * d

	if lambda <= 0 {
		return 1.0
	}

	sum := 0.0
	sign := 1.0
	for j := 1; j <= 100; j++ {
		term := sign * math.Exp(-2.0*lambda*lambda*float64(j)*float64(j))
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}

	return clampP(2 * sum)
}

// KSTwoSample runs the two-sided, two-sample Kolmogorov-Smirnov test on two
// length samples. Returns nil when either sample is empty after NaN removal.
// The result carries both ECDFs and the location of the maximal gap (first
// ascending value achieving the maximum).
func KSTwoSample(a, b []float64) *stattest.KSResult {
	a, b = dropNaN(a), dropNaN(b)
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	ecdfA := BuildECDF(a)
	ecdfB := BuildECDF(b)
	gap := maxECDFGap(ecdfA, ecdfB)

	return &stattest.KSResult{
		D:      gap.Gap,
		PValue: ksPValue(gap.Gap, len(a), len(b)),
		NA:     len(a),
		NB:     len(b),
		MaxGap: gap,
		ECDFA:  ecdfA,
		ECDFB:  ecdfB,
	}
}
