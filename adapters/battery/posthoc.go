package battery

import (
	"sort"

	"symtrace/domain/stattest"
)

// PostHocTest selects the pairwise test used after an omnibus comparison.
type PostHocTest int

const (
	PostHocTTest PostHocTest = iota
	PostHocMannWhitney
)

// PostHocOptions configures the pairwise follow-up battery.
type PostHocOptions struct {
	// EqualVar selects the pooled-variance t-test instead of Welch's.
	// Ignored for Mann-Whitney.
	EqualVar   bool
	Correction stattest.Correction
}

// PostHocPairwise runs the chosen two-sample test on every unordered pair
// of groups, skipping pairs where either side has too few usable values,
// then applies the multiplicity correction across the pairs that ran.
func PostHocPairwise(byGroup map[string][]float64, test PostHocTest, opts PostHocOptions) []stattest.PairResult {
	var pairs []stattest.PairResult
	labels := sortedKeys(byGroup)

	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			a := dropNaN(byGroup[labels[i]])
			b := dropNaN(byGroup[labels[j]])

			var result *stattest.PairResult
			switch test {
			case PostHocMannWhitney:
				mw := MannWhitney(a, b)
				if mw == nil {
					continue
				}
				result = &stattest.PairResult{
					Statistic: mw.U,
					RawP:      mw.PValue,
					NA:        mw.NA,
					NB:        mw.NB,
				}
			default:
				statistic, p, ok := TwoSampleTTest(a, b, opts.EqualVar)
				if !ok {
					continue
				}
				result = &stattest.PairResult{
					Statistic: statistic,
					RawP:      p,
					NA:        len(a),
					NB:        len(b),
				}
			}

			result.ModalityA = labels[i]
			result.ModalityB = labels[j]
			pairs = append(pairs, *result)
		}
	}

	return finalizePairs(pairs, opts.Correction)
}

// WilcoxonPairwise runs the signed-rank test on every unordered pair of
// conditions in a paired table. Pairs where every block difference is zero
// are skipped, matching the test's refusal to produce a statistic there.
func WilcoxonPairwise(table stattest.PairedTable, correction stattest.Correction) []stattest.PairedPairResult {
	k := len(table.Conditions)
	if table.IsEmpty() || k < 2 {
		return nil
	}

	var pairs []stattest.PairedPairResult
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			statistic, p, n, err := WilcoxonSignedRank(table.Column(i), table.Column(j))
			if err != nil {
				continue
			}
			pairs = append(pairs, stattest.PairedPairResult{
				ConditionA: table.Conditions[i],
				ConditionB: table.Conditions[j],
				Statistic:  statistic,
				RawP:       p,
				N:          n,
			})
		}
	}

	if len(pairs) == 0 {
		return nil
	}

	raw := make([]float64, len(pairs))
	for i, p := range pairs {
		raw[i] = p.RawP
	}

	adjusted, rejected := AdjustPValues(raw, correction)
	for i := range pairs {
		pairs[i].AdjustedP = adjusted[i]
		pairs[i].Rejected = rejected[i]
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		if correction == stattest.CorrectionNone {
			return pairs[i].RawP < pairs[j].RawP
		}
		return pairs[i].AdjustedP < pairs[j].AdjustedP
	})

	return pairs
}
