package rng

import (
	"context"
	"math/rand"
)

// SeededAdapter implements ports.RNGPort with deterministic named streams.
// The stream name is folded into the seed so two operations sharing a base
// seed still draw independent sequences.
type SeededAdapter struct{}

func NewSeededAdapter() *SeededAdapter {
	return &SeededAdapter{}
}

// SeededStream creates a deterministic random number generator for a named
// operation. The same name and seed always produce the same sequence.
func (a *SeededAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if name != "" {
		seed += int64(hashString(name))
	}
	return rand.New(rand.NewSource(seed)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
