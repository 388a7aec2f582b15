// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sync_test

import (
	stdsync "sync"
	"testing"

	ssync "code.hybscloud.com/schedcore/internal/sync"
)

// fakeCPU is a minimal InterruptController for tests: nesting counter only,
// no real interrupt source to disable.
type fakeCPU struct {
	id         int
	ncli       int
	enabled    bool
	wasEnabled bool
}

func newFakeCPU(id int) *fakeCPU { return &fakeCPU{id: id, enabled: true} }

func (c *fakeCPU) PushCLI() {
	wasEnabled := c.enabled
	c.enabled = false
	if c.ncli == 0 {
		c.wasEnabled = wasEnabled
	}
	c.ncli++
}

func (c *fakeCPU) PopCLI() {
	c.ncli--
	if c.ncli < 0 {
		panic("PopCLI without PushCLI")
	}
	if c.ncli == 0 && c.wasEnabled {
		c.enabled = true
	}
}

func (c *fakeCPU) NCLI() int               { return c.ncli }
func (c *fakeCPU) InterruptsEnabled() bool { return c.enabled }

func TestSpinLockMutualExclusion(t *testing.T) {
	lk := ssync.New("test")
	counter := 0
	const goroutines = 16
	const iterations = 500

	var wg stdsync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			cpu := newFakeCPU(id)
			for i := 0; i < iterations; i++ {
				lk.Acquire(cpu, id)
				counter++
				lk.Release(cpu)
			}
		}(g)
	}
	wg.Wait()

	if counter != goroutines*iterations {
		t.Fatalf("counter: got %d, want %d", counter, goroutines*iterations)
	}
}

func TestSpinLockHoldingReflectsOwner(t *testing.T) {
	lk := ssync.New("test")
	cpuA := newFakeCPU(0)
	cpuB := newFakeCPU(1)

	lk.Acquire(cpuA, 0)
	if !lk.Holding(0) {
		t.Fatalf("Holding(0): want true while CPU 0 holds the lock")
	}
	if lk.Holding(1) {
		t.Fatalf("Holding(1): want false while CPU 0 holds the lock")
	}
	lk.Release(cpuA)

	lk.Acquire(cpuB, 1)
	if !lk.Holding(1) {
		t.Fatalf("Holding(1): want true after CPU 1 acquires")
	}
	lk.Release(cpuB)
}

func TestReleaseWithoutAcquirePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Release without Acquire: want panic")
		}
	}()
	lk := ssync.New("test")
	lk.Release(newFakeCPU(0))
}
