package battery

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"symtrace/domain/stattest"
)

// maxConcurrentPairs bounds the fan-out of batch pairwise testing.
const maxConcurrentPairs = 4

// AllPairsKS compares every unordered pair of modalities with non-empty
// samples using the KS two-sample test, applies the requested correction
// across the family, and returns the comparisons sorted ascending by the
// p-value used for ranking (adjusted when a correction is active).
func AllPairsKS(ctx context.Context, byModality map[string][]float64, correction stattest.Correction) ([]stattest.PairResult, error) {
	type pair struct {
		a, b string
	}

	var pairs []pair
	labels := sortedKeys(byModality)

	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			if len(dropNaN(byModality[labels[i]])) > 0 && len(dropNaN(byModality[labels[j]])) > 0 {
				pairs = append(pairs, pair{labels[i], labels[j]})
			}
		}
	}

	if len(pairs) == 0 {
		return nil, nil
	}

	results := make([]*stattest.PairResult, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPairs)

	for idx, pr := range pairs {
		idx, pr := idx, pr
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			ks := KSTwoSample(byModality[pr.a], byModality[pr.b])
			if ks == nil {
				return nil
			}

			results[idx] = &stattest.PairResult{
				ModalityA: pr.a,
				ModalityB: pr.b,
				Statistic: ks.D,
				RawP:      ks.PValue,
				NA:        ks.NA,
				NB:        ks.NB,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var kept []stattest.PairResult
	for _, r := range results {
		if r != nil {
			kept = append(kept, *r)
		}
	}

	return finalizePairs(kept, correction), nil
}

// finalizePairs applies the correction to the family of raw p-values, sets
// the rejection flags, and sorts by the effective p-value.
func finalizePairs(pairs []stattest.PairResult, correction stattest.Correction) []stattest.PairResult {
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
