package battery

import (
	"context"
	"math/rand"
	"sort"
	"time"
)

// PermutationOptions tunes the Monte-Carlo permutation estimate of the KS
// p-value. Cost is linear in N times the pooled sample size; callers are
// responsible for bounding N.
type PermutationOptions struct {
	// N is the number of permutations to draw. Non-positive disables the
	// estimate.
	N int
	// Seed makes the estimate exactly reproducible. Nil seeds from the clock.
	Seed *int64
	// Rand overrides Seed with an explicit stream (e.g. from ports.RNGPort).
	Rand *rand.Rand
	// Progress, when set, is invoked after each completed permutation.
	Progress func(done, total int)
}

// KSPermutationPValue estimates a one-sided right-tail p-value for the KS
// statistic: pool both samples, repeatedly permute, split at the original
// sizes, and count how often the permuted D reaches the observed one.
//
// Returns (nil, nil) when either sample is empty, N is non-positive or the
// pooled sample is smaller than two. The loop checks ctx between iterations
// and returns its error on cancellation.
func KSPermutationPValue(ctx context.Context, a, b []float64, opts PermutationOptions) (*float64, error) {
	a, b = dropNaN(a), dropNaN(b)
	if len(a) == 0 || len(b) == 0 || opts.N <= 0 {
		return nil, nil
	}

	na := len(a)
	total := na + len(b)
	if total < 2 {
		return nil, nil
	}

	observed := ksStatistic(sortedCopy(a), sortedCopy(b))

	pooled := make([]float64, 0, total)
	pooled = append(pooled, a...)
	pooled = append(pooled, b...)

	rng := opts.Rand
	if rng == nil {
		seed := time.Now().UnixNano()
		if opts.Seed != nil {
			seed = *opts.Seed
		}
		rng = rand.New(rand.NewSource(seed))
	}

	groupA := make([]float64, na)
	groupB := make([]float64, total-na)
	count := 0

	for i := 0; i < opts.N; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		perm := rng.Perm(total)
		for k := 0; k < na; k++ {
			groupA[k] = pooled[perm[k]]
		}
		for k := na; k < total; k++ {
			groupB[k-na] = pooled[perm[k]]
		}

		sort.Float64s(groupA)
		sort.Float64s(groupB)

		if ksStatistic(groupA, groupB) >= observed {
			count++
		}

		if opts.Progress != nil {
			opts.Progress(i+1, opts.N)
		}
	}

	p := float64(count) / float64(opts.N)
	return &p, nil
}
