package core

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
)

// RNG is a deterministic pseudo-random source seeded from a string.
//
// Every value it produces is a pure function of the seed and the sequence of
// calls made so far, so two RNGs built from the same seed and driven the same
// way yield identical streams.
type RNG struct {
	seed string
	r    *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed string) *RNG {
	h := HashString(seed)
	return &RNG{seed: seed, r: rand.New(rand.NewPCG(h, Mix64(h^0x9e3779b97f4a7c15)))}
}

// Seed returns the string the RNG was created from.
func (r *RNG) Seed() string { return r.seed }

// Next returns a float in [0, 1).
func (r *RNG) Next() float64 { return r.r.Float64() }

// Range returns a float in [min, max).
func (r *RNG) Range(min, max float64) float64 {
	return min + r.Next()*(max-min)
}

// IntRange returns an integer in [min, max]. Reversed bounds are swapped.
func (r *RNG) IntRange(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + r.r.IntN(max-min+1)
}

// Chance reports true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.Next() < p
}

// Int63 returns a non-negative int64, used to seed third-party noise sources.
func (r *RNG) Int63() int64 { return r.r.Int64() }

// Normal draws from a normal distribution using the Box-Muller transform.
func (r *RNG) Normal(mean, stddev float64) float64 {
	u1 := 1 - r.Next() // (0, 1]
	u2 := r.Next()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + z*stddev
}

// Fork derives an independent sub-stream labelled by label. The parent
// stream is not advanced.
func (r *RNG) Fork(label string) *RNG {
	return NewRNG(r.seed + "/" + label)
}

// Noise2D returns a value in [0, 1) for the coordinate pair. Coordinates are
// multiplied by scale and floored; each quantized pair gets its own fresh
// generator so results do not depend on query order and the shared stream is
// left untouched.
func (r *RNG) Noise2D(x, y, scale float64) float64 {
	qx := int64(math.Floor(x * scale))
	qy := int64(math.Floor(y * scale))
	buf := make([]byte, 0, len(r.seed)+24)
	buf = append(buf, r.seed...)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, qx, 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, qy, 10)
	return NewRNG(string(buf)).Next()
}

// WeightedChoice returns an index drawn proportionally to weights. Negative
// weights count as zero.
func (r *RNG) WeightedChoice(weights []float64) (int, error) {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if len(weights) == 0 || total <= 0 {
		return 0, fmt.Errorf("%w: weighted choice needs a positive total weight", ErrInvalidArgument)
	}
	target := r.Next() * total
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if target < w {
			return i, nil
		}
		target -= w
	}
	return last, nil
}

// Choice returns a random element of items.
func Choice[T any](r *RNG, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, fmt.Errorf("%w: choice from an empty slice", ErrInvalidArgument)
	}
	return items[r.r.IntN(len(items))], nil
}

// Sample returns k distinct elements of items in random order. items is not
// modified.
func Sample[T any](r *RNG, items []T, k int) ([]T, error) {
	if k < 0 || k > len(items) {
		return nil, fmt.Errorf("%w: cannot sample %d of %d items", ErrInvalidArgument, k, len(items))
	}
	pool := append([]T(nil), items...)
	for i := 0; i < k; i++ {
		j := i + r.r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k], nil
}

// Shuffle permutes items in place (Fisher-Yates).
func Shuffle[T any](r *RNG, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.r.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
