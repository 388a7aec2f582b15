// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/schedcore/internal/hal"
	"code.hybscloud.com/schedcore/internal/list"
	"code.hybscloud.com/spin"
)

// VirtualCPU is one simulated physical CPU (spec §6's cpus[]/ncpu/
// lapicid()), each running its own independent scheduler loop against the
// shared Table under its coarse lock. ncli/intEnabled implement xv6's
// pushcli/popcli nesting so SpinLock.Acquire/Release can disable and
// restore interrupts around critical sections.
type VirtualCPU struct {
	id      int
	table   *Table
	current *Process

	ncli       int
	intEnabled bool
	wasEnabled bool

	schedContext Context
}

// Context is an opaque per-CPU scheduler context, the hal.Context the
// scheduler loop itself resumes into via the out-of-scope swtch
// primitive.
type Context = hal.Context

func newVirtualCPU(id int, t *Table) *VirtualCPU {
	return &VirtualCPU{id: id, table: t, intEnabled: true}
}

// ID returns the CPU's identifier.
func (c *VirtualCPU) ID() int { return c.id }

// Current returns the process currently on this CPU, or nil.
func (c *VirtualCPU) Current() *Process { return c.current }

// PushCLI disables interrupts and increments the nesting counter, saving
// whether interrupts were enabled only at the outermost nesting level —
// exactly xv6's pushcli.
func (c *VirtualCPU) PushCLI() {
	wasEnabled := c.intEnabled
	c.intEnabled = false
	if c.ncli == 0 {
		c.wasEnabled = wasEnabled
	}
	c.ncli++
}

// PopCLI decrements the nesting counter, restoring interrupts once it
// reaches zero and they were enabled at the outermost PushCLI — xv6's
// popcli. Panics on an unbalanced Pop, mirroring its "popcli" underflow
// check.
func (c *VirtualCPU) PopCLI() {
	if c.intEnabled {
		panic("sched: popcli: interruptible")
	}
	c.ncli--
	if c.ncli < 0 {
		panic("sched: popcli: unbalanced with pushcli")
	}
	if c.ncli == 0 && c.wasEnabled {
		c.intEnabled = true
	}
}

// NCLI returns the current PushCLI nesting depth.
func (c *VirtualCPU) NCLI() int { return c.ncli }

// InterruptsEnabled reports whether interrupts are currently enabled on
// this CPU.
func (c *VirtualCPU) InterruptsEnabled() bool { return c.intEnabled }

// enableInterruptsBriefly is the scheduler loop's sti(): called once per
// iteration, outside the lock, before the next acquire.
func (c *VirtualCPU) enableInterruptsBriefly() {
	if c.ncli != 0 {
		panic("sched: enableInterruptsBriefly: cli nesting still held")
	}
	c.intEnabled = true
}

// sched asserts the invariants spec §7 requires of every call a process
// makes into sched() on its way back to the scheduler: the table lock must
// be held, exactly one PushCLI nesting level outstanding, the caller's
// state must already have been changed away from RUNNING, and interrupts
// must be disabled. Yield, SleepOn, and ExitProcess each call this right
// after setting the process's new state.
func (t *Table) sched(cpu *VirtualCPU, p *Process) {
	if !t.lock.Holding(cpu.id) {
		panic("sched: sched called without ptable.lock")
	}
	if cpu.ncli != 1 {
		panic("sched: sched called with ncli != 1")
	}
	if p.State == Running {
		panic("sched: sched called while state is RUNNING")
	}
	if cpu.intEnabled {
		panic("sched: sched called with interrupts enabled")
	}
}

// StepOnce runs the selection half of one scheduler-loop iteration (spec
// §4.5): pick the next process, context switch to it if one was runnable,
// and return it (nil if the CPU went idle). It does not yet run the
// departing process's MLFQ/Stride bookkeeping — that belongs to whichever
// of Yield, SleepOn, or ExitProcess the caller invokes on the returned
// process once it stops running, exactly as mlfqlogic/stridelogic only run
// once the departing syscall has already changed its state. When the
// selected process stays idle (nil, or popped off the Stride heap only to
// be found not RUNNABLE), there is no such syscall to wait for, so the
// Stride pass accounting happens here instead, matching the unconditional
// stridelogic(p) call at the end of the original scheduler loop.
//
// Splitting the iteration this way trades the original's single
// continuously-held lock-across-the-switch for two sequential
// acquire/release pairs; for the single-goroutine drivers this module
// ships (tests, cmd/schedsim), the two are observably identical, and it
// avoids modeling a real per-process continuation. See DESIGN.md.
func (c *VirtualCPU) StepOnce() *Process {
	c.enableInterruptsBriefly()

	t := c.table
	t.acquire(c)

	var p *Process
	if t.getMinPass() < t.mlfq.pass {
		p = t.popHeap()
	} else {
		p = t.mlfqSelect()
	}

	if p != nil && p.State == Runnable {
		if p.Type == Stride {
			list.Add(t.stride.run, p.queue)
		}

		c.current = p
		t.vm.SwitchUVM(p.PageTable)
		p.State = Running
		t.record(c, p, "switch")

		t.cs.Switch(&c.schedContext, p.Context)
		t.vm.SwitchKVM()

		if !t.scheduledOnce {
			t.scheduledOnce = true
			if t.onFirstSchedule != nil {
				t.onFirstSchedule()
			}
		}

		c.current = nil
	} else {
		t.strideLogic(p)
		p = nil
	}

	t.release(c)

	return p
}

// Run loops StepOnce until stop is closed, idle-waiting with spin.Wait
// backoff when no process was runnable, standing in for the
// tick-interrupt-driven scheduler() loop of spec §4.5. Tests and
// cmd/schedsim drive StepOnce directly for determinism.
func (c *VirtualCPU) Run(stop <-chan struct{}) {
	var sw spin.Wait
	for {
		select {
		case <-stop:
			return
		default:
		}
		if c.StepOnce() == nil {
			sw.Once()
		} else {
			sw = spin.Wait{}
		}
	}
}
