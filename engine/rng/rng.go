// Package rng provides a deterministic random source whose position can be
// saved and restored.
package rng

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts source values consumed, so it is enough to reproduce the
// state.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// New creates a new deterministic RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a uniform random integer in [0, n). n must be positive.
// Values from the biased tail of the source range are rejected.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to Intn")
	}
	max := int64((1<<63 - 1) - (1<<63)%uint64(n))
	v := r.next()
	for v > max {
		v = r.next()
	}
	return int(v % int64(n))
}

func (r *RNG) next() int64 {
	r.pos++
	return r.src.Int63()
}

// Shuffle permutes n elements with a Fisher-Yates shuffle, calling swap
// to exchange elements i and j.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of source values consumed since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Restore creates an RNG and advances it to the given position.
func Restore(seed int64, position int64) *RNG {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.src.Int63()
	}
	r.pos = position
	return r
}
