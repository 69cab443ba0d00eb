package testkit

import (
	"context"
	"math/rand"
	"time"
)

// RNGAdapter implements the RNGPort interface
type RNGAdapter struct {
	now func() time.Time
}

// NewRNGAdapter creates an adapter that seeds zero-seed streams from the clock
func NewRNGAdapter() *RNGAdapter {
	return &RNGAdapter{now: time.Now}
}

// SeededStream creates a random number generator for a named operation
func (r *RNGAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if seed == 0 {
		seed = r.clockSeed()
	}
	return rand.New(rand.NewSource(seed)), nil
}

// Stream derives a deterministic generator from name, key and a non-zero base seed
func (r *RNGAdapter) Stream(ctx context.Context, name, key string, baseSeed int64) (*rand.Rand, error) {
	if baseSeed == 0 {
		return r.SeededStream(ctx, name, 0)
	}
	seed := baseSeed
	if name != "" {
		seed = int64(hashString(name)) + seed
	}
	if key != "" {
		seed = int64(hashString(key)) + seed
	}
	return rand.New(rand.NewSource(seed)), nil
}

func (r *RNGAdapter) clockSeed() int64 {
	if r.now == nil {
		return time.Now().UnixNano()
	}
	return r.now().UnixNano()
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
