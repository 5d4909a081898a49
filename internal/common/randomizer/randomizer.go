package randomizer

import "math/rand"

// Randomizer is the randomness seam for role assignment and word selection.
// Tests substitute fixed sequences.
type Randomizer interface {
	// Perm returns a random permutation of [0, n)
	Perm(n int) []int

	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// defaultRandomizer draws from the top-level math/rand source, which
// serializes access internally. One instance is shared across handler
// goroutines, so a bare *rand.Rand would race.
type defaultRandomizer struct{}

// New creates a goroutine-safe Randomizer
func New() Randomizer {
	return defaultRandomizer{}
}

// Perm returns a random permutation of [0, n)
func (defaultRandomizer) Perm(n int) []int {
	return rand.Perm(n)
}

// Intn returns a random int in [0, n)
func (defaultRandomizer) Intn(n int) int {
	return rand.Intn(n)
}
