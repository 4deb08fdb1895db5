// Package physics provides collision tests, clamping and random draws.
package physics

import (
	"math/rand/v2"
	"time"
)

// Rand is the source of uniform values in [0, 1) used for spawning and
// probability rolls. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a time-seeded source for production use.
func NewRand() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

// Uniform returns a value drawn uniformly from [lo, hi).
func Uniform(r Rand, lo, hi float64) float64 {
	return r.Float64()*(hi-lo) + lo
}

// Chance reports whether a roll with probability p succeeded.
func Chance(r Rand, p float64) bool {
	return r.Float64() < p
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// CirclesOverlap checks if two circles touch or overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) <= minDist*minDist
}
