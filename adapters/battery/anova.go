package battery

import (
	"gonum.org/v1/gonum/stat/distuv"

	"symtrace/domain/stattest"
)

// OneWayANOVA runs a one-way analysis of variance across the groups. NaN
// values are removed per group; groups left empty are dropped. Returns nil
// when fewer than two non-empty groups remain. TotalN and the within degrees
// of freedom count every raw observation, NaNs included.
func OneWayANOVA(byGroup map[string][]float64) *stattest.AnovaResult {
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

	k := len(groups)
	cleanN := 0
	grandSum := 0.0

	for _, g := range groups {
		cleanN += len(g)
		for _, v := range g {
			grandSum += v
		}
	}

	grandMean := grandSum / float64(cleanN)

	ssBetween := 0.0
	ssWithin := 0.0

	for _, g := range groups {
		sum := 0.0
		for _, v := range g {
			sum += v
		}
		mean := sum / float64(len(g))

		diff := mean - grandMean
		ssBetween += float64(len(g)) * diff * diff

		for _, v := range g {
			d := v - mean
			ssWithin += d * d
		}
	}

	dfBetween := k - 1
	dfWithinClean := cleanN - k

	f := 0.0
	p := 1.0
	if dfWithinClean > 0 && ssWithin > 0 {
		f = (ssBetween / float64(dfBetween)) / (ssWithin / float64(dfWithinClean))
		fDist := distuv.F{D1: float64(dfBetween), D2: float64(dfWithinClean)}
		p = clampP(1 - fDist.CDF(f))
	}

	return &stattest.AnovaResult{
		F:         f,
		PValue:    p,
		DFBetween: dfBetween,
		DFWithin:  rawTotal - k,
		TotalN:    rawTotal,
		Groups:    k,
	}
}
