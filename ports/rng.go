package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for reproducible sample data
type RNGPort interface {
	// SeededStream creates a random number generator for a named operation.
	// A zero seed means "not reproducible" and is replaced by a time-based one.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream derives a per-key generator from a base seed so that two keys
	// (for example two dashboard sessions) never share a sequence
	Stream(ctx context.Context, name, key string, baseSeed int64) (*rand.Rand, error)
}
