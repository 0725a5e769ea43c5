package battery

import (
	"context"
	"math/rand"
	"testing"
)

func TestKSPermutationPValue_Reproducible(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6}
	b := []float64{4, 5, 6, 7, 8, 9}
	seed := int64(42)

	first, err := KSPermutationPValue(context.Background(), a, b, PermutationOptions{N: 200, Seed: &seed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := KSPermutationPValue(context.Background(), a, b, PermutationOptions{N: 200, Seed: &seed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first == nil || second == nil {
		t.Fatal("expected estimates on both runs")
	}
	if *first != *second {
		t.Errorf("same seed produced %v then %v", *first, *second)
	}
	if *first < 0 || *first > 1 {
		t.Errorf("estimate %v outside [0, 1]", *first)
	}
}

func TestKSPermutationPValue_ExplicitStream(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{100, 101, 102, 103, 104}

	p, err := KSPermutationPValue(context.Background(), a, b, PermutationOptions{
		N:    500,
		Rand: rand.New(rand.NewSource(42)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil {
		t.Fatal("expected an estimate")
	}

	// Disjoint samples: a random split almost never reproduces D = 1.
	if *p > 0.1 {
		t.Errorf("estimate %v, want a small right-tail p", *p)
	}
}

func TestKSPermutationPValue_Disabled(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		n    int
	}{
		{name: "non-positive n", a: []float64{1, 2}, b: []float64{3, 4}, n: 0},
		{name: "empty sample", a: nil, b: []float64{3, 4}, n: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := KSPermutationPValue(context.Background(), tt.a, tt.b, PermutationOptions{N: tt.n})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p != nil {
				t.Errorf("expected no estimate, got %v", *p)
			}
		})
	}
}

func TestKSPermutationPValue_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := KSPermutationPValue(ctx, []float64{1, 2, 3}, []float64{4, 5, 6}, PermutationOptions{N: 100})
	if err == nil {
		t.Error("expected an error from a cancelled context")
	}
}

func TestKSPermutationPValue_Progress(t *testing.T) {
	seed := int64(7)
	calls := 0

	_, err := KSPermutationPValue(context.Background(), []float64{1, 2, 3}, []float64{4, 5, 6}, PermutationOptions{
		N:    50,
		Seed: &seed,
		Progress: func(done, total int) {
			calls++
			if total != 50 {
				t.Errorf("total = %d, want 50", total)
			}
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 50 {
		t.Errorf("progress called %d times, want 50", calls)
	}
}
