// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sync provides the single coarse spinlock the scheduler core
// serializes on, with xv6's acquire/release interrupt-disable discipline:
// acquiring the lock also disables interrupts on the calling virtual CPU
// (nestable via a per-CPU counter), and releasing it restores the saved
// interrupt state once the outermost critical section ends.
package sync

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// InterruptController is the per-CPU half of the acquire/release contract:
// PushCLI disables interrupts and bumps a nesting counter; PopCLI pops it
// and restores interrupts only when the counter reaches zero. A CPU
// implements this once and passes itself to every SpinLock it touches.
type InterruptController interface {
	PushCLI()
	PopCLI()
	NCLI() int
	InterruptsEnabled() bool
}

// SpinLock is a test-and-test-and-set lock with interrupt-disable
// discipline, standing in for xv6's struct spinlock + acquire/release.
type SpinLock struct {
	locked atomix.Uint64 // 0 = free, 1 = held
	owner  atomix.Uint64 // id of the holding CPU + 1, 0 if free
	name   string
}

// New creates an unheld lock, named for diagnostics (panics, procdump-style
// debugging) the way xv6's initlock names a lock.
func New(name string) *SpinLock {
	return &SpinLock{name: name}
}

// Name returns the lock's diagnostic name.
func (l *SpinLock) Name() string { return l.name }

// Acquire disables interrupts on ic, then spins until the lock is free and
// claims it for cpuID. Must be paired with Release.
func (l *SpinLock) Acquire(ic InterruptController, cpuID int) {
	ic.PushCLI()
	if l.Holding(cpuID) {
		panic("sched: acquire " + l.name + ": already holding")
	}

	sw := spin.Wait{}
	for l.locked.LoadAcquire() != 0 || !l.locked.CompareAndSwapAcqRel(0, 1) {
		sw.Once()
	}
	l.owner.StoreRelease(uint64(cpuID) + 1)
}

// Release clears ownership, frees the lock, and pops ic's interrupt-disable
// nesting, restoring interrupts if this was the outermost critical section.
func (l *SpinLock) Release(ic InterruptController) {
	if !l.HoldingAny() {
		panic("sched: release " + l.name + ": not held")
	}
	l.owner.StoreRelease(0)
	l.locked.StoreRelease(0)
	ic.PopCLI()
}

// Holding reports whether cpuID currently holds the lock.
func (l *SpinLock) Holding(cpuID int) bool {
	return l.locked.LoadAcquire() == 1 && l.owner.LoadAcquire() == uint64(cpuID)+1
}

// HoldingAny reports whether any CPU currently holds the lock.
func (l *SpinLock) HoldingAny() bool {
	return l.locked.LoadAcquire() == 1
}
