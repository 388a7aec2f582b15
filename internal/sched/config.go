// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "fmt"

// Config carries the scheduler's compile-time tunables (spec §6) as a
// validated value instead of package constants, so tests and cmd/schedsim
// can each instantiate a table sized and tuned for their own scenario.
type Config struct {
	// NProc is the size of the fixed process table.
	NProc int
	// QSize is the number of MLFQ levels. Level 0 is highest priority;
	// QSize-1 ("base") never demotes further.
	QSize int
	// TQ[l] is the time quantum, in ticks, of level l. Monotone increasing.
	TQ []int
	// TA[l] is the time allotment, in ticks, of level l before demotion.
	// Monotone increasing.
	TA []int
	// BoostInterval is the number of mlfq ticks between priority boosts.
	BoostInterval uint64
	// Reserve is the minimum mlfq ticket share (percent) that must remain
	// after any Stride admission.
	Reserve int
	// Large is the Stride numerator: STRD(tickets) = Large / tickets.
	Large int64
	// Barrier is the pass value above which stride/mlfq pass accounting
	// is rebased to prevent unbounded growth.
	Barrier int64
	// MaxInt stands in for an "infinite" pass, returned by getMinPass when
	// the Stride heap is empty so the MLFQ side always wins the compare.
	MaxInt int64
	// TraceCapacity sizes the lock-free diagnostic event buffer every
	// virtual CPU records switch/state-transition events into.
	TraceCapacity int
}

// DefaultConfig returns the tunables used throughout this module's tests
// and cmd/schedsim: three MLFQ levels, a 100-tick boost interval, and a
// 20% MLFQ reserve.
func DefaultConfig() Config {
	return Config{
		NProc:         64,
		QSize:         3,
		TQ:            []int{1, 2, 4},
		TA:            []int{5, 10, 1 << 30},
		BoostInterval: 100,
		Reserve:       20,
		Large:         1 << 20,
		Barrier:       1 << 30,
		MaxInt:        1 << 62,
		TraceCapacity: 1024,
	}
}

// Validate checks internal consistency of a Config, panicking on a
// malformed configuration the way the teacher's Builder panics on an
// invalid capacity — these are programmer errors, not runtime conditions
// a caller recovers from.
func (c Config) Validate() {
	if c.NProc <= 0 {
		panic("sched: NProc must be > 0")
	}
	if c.QSize <= 0 {
		panic("sched: QSize must be > 0")
	}
	if len(c.TQ) != c.QSize || len(c.TA) != c.QSize {
		panic(fmt.Sprintf("sched: TQ/TA must have length QSize=%d", c.QSize))
	}
	for l := 1; l < c.QSize; l++ {
		if c.TQ[l] < c.TQ[l-1] || c.TA[l] < c.TA[l-1] {
			panic("sched: TQ and TA must be monotone non-decreasing in level")
		}
	}
	if c.Reserve < 0 || c.Reserve > 100 {
		panic("sched: Reserve must be in [0,100]")
	}
	if c.BoostInterval == 0 {
		panic("sched: BoostInterval must be > 0")
	}
	if c.Large <= 0 {
		panic("sched: Large must be > 0")
	}
	if c.TraceCapacity <= 0 {
		panic("sched: TraceCapacity must be > 0")
	}
}

// baseLevel is the lowest-priority MLFQ level, which never demotes further.
func (c Config) baseLevel() int { return c.QSize - 1 }

// stride returns STRD(tickets): the per-tick pass increment for a
// participant holding the given ticket count.
func (c Config) stride(tickets int) int64 {
	if tickets <= 0 {
		panic("sched: stride constant requires tickets > 0")
	}
	return c.Large / int64(tickets)
}
