// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/schedcore/internal/hal"
	"code.hybscloud.com/schedcore/internal/list"
	ssync "code.hybscloud.com/schedcore/internal/sync"
	"code.hybscloud.com/schedcore/internal/trace"
)

// mlfqState is the MLFQ side of the shared ptable (spec §3).
type mlfqState struct {
	queue   []*list.Head[Process] // per-level FIFO sentinel, length QSize
	pin     []*list.Head[Process] // per-level round-robin cursor
	ticks   uint64
	pass    int64
	tickets int
}

// strideState is the Stride side of the shared ptable (spec §3).
type strideState struct {
	heap []*Process          // 1-indexed min-heap by Pass; heap[0] unused
	size int
	run  *list.Head[Process] // currently-RUNNING Stride processes
}

// Table is the global scheduler state: the fixed process table, the free
// pool, both sub-scheduler ready-sets, and the shared sleep list, all
// guarded by a single spinlock (spec §3, §5).
type Table struct {
	cfg  Config
	lock *ssync.SpinLock

	slots []*Process
	free  *list.Head[Process]

	mlfq   mlfqState
	stride strideState
	sleep  *list.Head[Process]

	initProc *Process
	nextPID  atomix.Uint64

	cpus []*VirtualCPU

	vm hal.VM
	fs hal.FileSystem
	ks hal.KernelStack
	cs hal.ContextSwitcher

	events *trace.Buffer

	onFirstSchedule func()
	scheduledOnce   bool
}

// NewTable builds a scheduler table for ncpu virtual CPUs, wired to the
// given collaborators (spec §6). cfg is validated before use.
func NewTable(cfg Config, ncpu int, vm hal.VM, fs hal.FileSystem, ks hal.KernelStack, cs hal.ContextSwitcher) *Table {
	cfg.Validate()
	if ncpu <= 0 {
		panic("sched: ncpu must be > 0")
	}

	t := &Table{
		cfg:   cfg,
		lock:  ssync.New("ptable"),
		slots: make([]*Process, cfg.NProc),
		free:  list.New[Process](nil),
		sleep: list.New[Process](nil),
		vm:     vm,
		fs:     fs,
		ks:     ks,
		cs:     cs,
		events: trace.NewBuffer(cfg.TraceCapacity),
	}
	t.free.Init()
	t.sleep.Init()

	t.mlfq.queue = make([]*list.Head[Process], cfg.QSize)
	t.mlfq.pin = make([]*list.Head[Process], cfg.QSize)
	for l := 0; l < cfg.QSize; l++ {
		t.mlfq.queue[l] = list.New[Process](nil)
		t.mlfq.queue[l].Init()
		t.mlfq.pin[l] = t.mlfq.queue[l]
	}
	t.mlfq.tickets = 100

	t.stride.heap = make([]*Process, cfg.NProc+1)
	t.stride.run = list.New[Process](nil)
	t.stride.run.Init()

	for i := range t.slots {
		p := newProcess()
		t.slots[i] = p
		list.AddTail(t.free, p.queue)
	}

	t.cpus = make([]*VirtualCPU, ncpu)
	for i := range t.cpus {
		t.cpus[i] = newVirtualCPU(i, t)
	}

	return t
}

// Config returns the table's tunables.
func (t *Table) Config() Config { return t.cfg }

// CPU returns the virtual CPU with the given id, panicking if out of range
// the way mycpu panics on an unknown apicid (spec §7).
func (t *Table) CPU(id int) *VirtualCPU {
	if id < 0 || id >= len(t.cpus) {
		panic("sched: unknown cpu id")
	}
	return t.cpus[id]
}

// NCPU returns the number of virtual CPUs.
func (t *Table) NCPU() int { return len(t.cpus) }

// InitProc returns the root process, or nil before Init is called.
func (t *Table) InitProc() *Process { return t.initProc }

// OnFirstSchedule registers fn to run the first time any process is ever
// scheduled, standing in for forkret's one-shot "first" guard (which in
// the original runs filesystem init — out of scope here, so the hook is
// left generic).
func (t *Table) OnFirstSchedule(fn func()) {
	t.onFirstSchedule = fn
}

func (t *Table) nextPid() int {
	return int(t.nextPID.AddAcqRel(1))
}

// Events returns the table's lock-free scheduler event buffer. Every
// virtual CPU records into it concurrently; draining it (single consumer)
// is left to the caller, e.g. TraceDump.
func (t *Table) Events() *trace.Buffer { return t.events }

// record appends a diagnostic event, overwriting the oldest entry once the
// ring is full: tracing must never make a scheduling decision wait, and
// never fails.
func (t *Table) record(cpu *VirtualCPU, p *Process, kind string) {
	pid := 0
	if p != nil {
		pid = p.PID
	}
	t.events.Record(trace.Event{CPU: cpu.id, PID: pid, Kind: kind})
}

func (t *Table) allotmentAt(level int) int { return t.cfg.TA[level] }
func (t *Table) quantumAt(level int) int   { return t.cfg.TQ[level] }
func (t *Table) baseLevel() int            { return t.cfg.baseLevel() }

// acquire and release wrap the table lock with the calling CPU's
// interrupt-disable discipline, mirroring xv6's acquire(&ptable.lock)/
// release(&ptable.lock).
func (t *Table) acquire(cpu *VirtualCPU) {
	t.lock.Acquire(cpu, cpu.id)
}

func (t *Table) release(cpu *VirtualCPU) {
	t.lock.Release(cpu)
}
