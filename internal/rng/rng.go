// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package rng provides the randomness source threaded through the content
// generator and the image compositor. Production code uses an unseeded
// source; tests construct one with a fixed seed for reproducible picks.
package rng

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source picks uniformly distributed integers. Implementations must be safe
// for concurrent use.
type Source interface {
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// Rand is a mutex-guarded PCG generator.
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a deterministic source for the given seed.
func New(seed uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSeeded returns a source seeded from the wall clock.
func NewTimeSeeded() *Rand {
	return New(uint64(time.Now().UnixNano()))
}

// IntN returns a pseudo-random value in [0, n).
func (r *Rand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.IntN(n)
}

// Pick returns one element of items chosen uniformly at random, and false
// when items is empty.
func Pick[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[src.IntN(len(items))], true
}
