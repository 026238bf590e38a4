package rng

import "math/rand"

// Generator provides a simple random number.
// Both Crypto and a seeded *math/rand.Rand satisfy this interface, so a deck
// can shuffle from crypto randomness in production and deterministically in tests.
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

var _ Generator = (*rand.Rand)(nil)
var _ Generator = Crypto{}
