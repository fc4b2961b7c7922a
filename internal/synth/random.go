package synth

import (
	"fmt"
	"math"
)

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280

	// DefaultSeed seeds the generator when no seed is configured
	DefaultSeed int64 = 12345
)

// Random is a linear congruential generator. The output stream is a pure
// function of the seed and the sequence of calls made against it, so every
// caller that shares an instance is part of the reproducibility contract.
//
// Random is not safe for concurrent use.
type Random struct {
	seed int64
}

// NewRandom creates a generator for the given seed
func NewRandom(seed int64) *Random {
	seed %= lcgModulus
	if seed < 0 {
		seed += lcgModulus
	}
	return &Random{seed: seed}
}

// NewRandomFromString seeds a generator with the sum of the string's character codes
func NewRandomFromString(seed string) *Random {
	var sum int64
	for _, r := range seed {
		sum += int64(r)
	}
	return NewRandom(sum)
}

// Next advances the generator and returns a float in [0,1)
func (r *Random) Next() float64 {
	r.seed = (r.seed*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(r.seed) / lcgModulus
}

// Range returns a float in [lo,hi)
func (r *Random) Range(lo, hi float64) float64 {
	if hi < lo {
		panic(fmt.Sprintf("synth: invalid range [%v, %v)", lo, hi))
	}
	return lo + r.Next()*(hi-lo)
}

// Int returns an integer in [lo,hi], inclusive on both ends
func (r *Random) Int(lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("synth: invalid int range [%d, %d]", lo, hi))
	}
	return int(math.Floor(r.Range(float64(lo), float64(hi+1))))
}

// Bool returns true with probability p
func (r *Random) Bool(p float64) bool {
	return r.Next() < p
}

// Choice picks one element of list
func Choice[T any](r *Random, list []T) T {
	if len(list) == 0 {
		panic("synth: choice from empty list")
	}
	return list[r.Int(0, len(list)-1)]
}
