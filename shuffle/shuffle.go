// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package shuffle

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Source yields uniform integers in [0, n). Implementations need not be
// safe for concurrent use; the engines serialize access.
type Source interface {
	IntN(n int) int
}

// New returns a deterministic PCG-backed source for the given seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// FromSeed returns New(seed), or a crypto-seeded source when seed is 0.
// The seed actually used is returned so runs can be reproduced.
func FromSeed(seed int64) (*rand.Rand, int64, error) {
	if seed == 0 {
		var err error
		seed, err = NewSeed()
		if err != nil {
			return nil, 0, err
		}
	}
	return New(seed), seed, nil
}

// Pick returns a uniform index into a collection of length n.
// It panics if n <= 0, matching rand.IntN.
func Pick(src Source, n int) int {
	return src.IntN(n)
}

// Shuffle returns a uniformly random permutation of items (Fisher–Yates).
// The input slice is left untouched.
func Shuffle[T any](src Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Sequence replays a fixed list of values, each reduced modulo n. It wraps
// around when exhausted. Useful for asserting exact draws and permutations.
type Sequence struct {
	values []int
	pos    int
}

func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) IntN(n int) int {
	if n <= 0 {
		panic("shuffle: invalid argument to IntN")
	}
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	if v < 0 {
		v = -v
	}
	return v % n
}
