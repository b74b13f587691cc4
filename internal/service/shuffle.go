package service

import "math/rand/v2"

// Rand is the source of randomness used by the study engine.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the goroutine-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand returns the unseeded, goroutine-safe random source.
func DefaultRand() Rand { return globalRand{} }

// Shuffle returns a shuffled copy of the input slice.
// The input is never modified.
func Shuffle[T any](in []T) []T {
	return ShuffleWith(globalRand{}, in)
}

// ShuffleWith returns a copy of in permuted by a Fisher-Yates pass driven by r.
func ShuffleWith[T any](r Rand, in []T) []T {
	out := append([]T(nil), in...)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
