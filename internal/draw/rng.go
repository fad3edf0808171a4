package draw

import "math/rand/v2"

// RNG is the source of randomness for winner fallback and spin jitter.
// *rand.Rand from math/rand/v2 satisfies it.
type RNG interface {
	IntN(n int) int
	Float64() float64
}

type systemRNG struct{}

func (systemRNG) IntN(n int) int   { return rand.IntN(n) }
func (systemRNG) Float64() float64 { return rand.Float64() }

// SystemRNG returns the process-wide, automatically seeded generator.
func SystemRNG() RNG {
	return systemRNG{}
}

// NewSeededRNG returns a reproducible generator, useful for rehearsing a draw.
func NewSeededRNG(seed uint64) RNG {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
