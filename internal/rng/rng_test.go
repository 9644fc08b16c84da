// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rng

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Deterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestIntN_Range(t *testing.T) {
	r := New(7)
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		v := r.IntN(4)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 4)
		seen[v] = true
	}
	assert.Len(t, seen, 4, "every value should eventually be picked")
}

func TestPick(t *testing.T) {
	r := New(1)
	_, ok := Pick[string](r, nil)
	assert.False(t, ok)

	v, ok := Pick(r, []string{"only"})
	assert.True(t, ok)
	assert.Equal(t, "only", v)
}

func TestRand_Concurrent(t *testing.T) {
	r := NewTimeSeeded()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.IntN(10)
			}
		}()
	}
	wg.Wait()
}
