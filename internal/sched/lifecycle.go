// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/schedcore/internal/hal"
	"code.hybscloud.com/schedcore/internal/list"
)

// Init allocates the first process, wires it up without a parent to copy
// from, and admits it RUNNABLE at MLFQ level 0 — the userinit() bootstrap
// spec §4.4 calls out as the one process creation path with no Fork behind
// it. It must be called exactly once, before any CPU's StepOnce.
func (t *Table) Init(cpu *VirtualCPU, name string, data []byte) (*Process, error) {
	p, err := t.allocProcess(cpu)
	if err != nil {
		return nil, err
	}

	pt, err := t.vm.SetupKVM()
	if err != nil {
		t.freeAllocated(cpu, p)
		return nil, err
	}
	t.vm.InitUVM(pt, data)

	cwd, err := t.fs.Namei("/")
	if err != nil {
		t.vm.FreeVM(pt)
		t.freeAllocated(cpu, p)
		return nil, err
	}

	p.PageTable = pt
	p.Size = uintptr(len(data))
	p.Name = name
	p.Cwd = cwd

	t.acquire(cpu)
	p.State = Runnable
	t.mlfqEnqueue(0, p)
	t.initProc = p
	t.release(cpu)

	return p, nil
}

// allocProcess finds a free slot, assigns it a fresh pid and a kernel
// stack, and marks it EMBRYO — the allocproc() half of fork/Init shared by
// both. Returns ErrNoFreeSlot if the table is full.
func (t *Table) allocProcess(cpu *VirtualCPU) (*Process, error) {
	t.acquire(cpu)
	if t.free.Empty() {
		t.release(cpu)
		return nil, ErrNoFreeSlot
	}
	p := list.FirstEntry(t.free)
	list.Del(p.queue)
	p.State = Embryo
	p.PID = t.nextPid()
	t.release(cpu)

	stack, err := t.ks.Alloc()
	if err != nil {
		t.acquire(cpu)
		p.State = Unused
		list.AddTail(t.free, p.queue)
		t.release(cpu)
		return nil, ErrNoFreeSlot
	}
	p.KernelStack = stack
	return p, nil
}

// freeAllocated reverts a process allocProcess handed out back onto the
// free list, used when a later step of Fork/Init fails.
func (t *Table) freeAllocated(cpu *VirtualCPU, p *Process) {
	t.ks.Free(p.KernelStack)
	t.acquire(cpu)
	*p = Process{children: p.children, sibling: p.sibling, queue: p.queue}
	p.children.Init()
	p.State = Unused
	list.AddTail(t.free, p.queue)
	t.release(cpu)
}

// Fork creates a child of parent, copying its address space and open files
// (spec §4.4, §6). The child is admitted RUNNABLE at MLFQ level 0 — Fork
// never creates a Stride child, matching the original's fork always
// producing an MLFQ process regardless of the parent's type. Returns
// ErrNoFreeSlot if the table is full or ErrForkVM if the collaborator VM
// fails to copy the address space.
func (t *Table) Fork(cpu *VirtualCPU, parent *Process) (*Process, error) {
	child, err := t.allocProcess(cpu)
	if err != nil {
		return nil, err
	}

	pt, err := t.vm.CopyUVM(parent.PageTable, parent.Size)
	if err != nil {
		t.freeAllocated(cpu, child)
		return nil, ErrForkVM
	}

	child.PageTable = pt
	child.Size = parent.Size
	child.Name = parent.Name
	child.Cwd = t.fs.IDup(parent.Cwd)
	child.Files = make([]hal.FileDescriptor, len(parent.Files))
	for i, fd := range parent.Files {
		child.Files[i] = t.fs.Dup(fd)
	}

	t.acquire(cpu)
	child.parent = parent
	list.AddTail(parent.children, child.sibling)
	child.State = Runnable
	t.mlfqEnqueue(0, child)
	t.release(cpu)

	return child, nil
}

// Yield is called by the process currently running on cpu to voluntarily
// give up the remainder of its quantum, staying RUNNABLE (spec §4.4). It
// runs the departing process's MLFQ/Stride bookkeeping before returning,
// standing in for the scheduler() resumption that follows yield's sched()
// call in the original.
func (t *Table) Yield(cpu *VirtualCPU, p *Process) {
	t.acquire(cpu)
	if p.Type == Stride {
		list.Del(p.queue)
	}
	p.State = Runnable
	t.sched(cpu, p)
	t.finishDeparture(p)
	t.record(cpu, p, "yield")
	t.release(cpu)
}

// SleepOn blocks the process currently running on cpu until Wakeup is
// called with an equal chan value (spec §4.4). Like Yield, it runs the
// departing process's bookkeeping inline.
func (t *Table) SleepOn(cpu *VirtualCPU, p *Process, ch Chan) {
	t.acquire(cpu)
	t.sleepLocked(p, ch)
	t.sched(cpu, p)
	t.finishDeparture(p)
	t.record(cpu, p, "sleep")
	t.release(cpu)
}

// sleepLocked removes p from whichever ready-set it currently occupies and
// moves it to the shared sleep list. Caller holds the table lock.
func (t *Table) sleepLocked(p *Process, ch Chan) {
	if p.Type == MLFQ {
		t.mlfqDequeue(p)
	} else {
		list.Del(p.queue)
	}
	p.chanWait = ch
	p.State = Sleeping
	list.AddTail(t.sleep, p.queue)
}

// Wakeup moves every process sleeping on ch back onto its ready-set as
// RUNNABLE (spec §4.4's wakeup/wakeup1). Only MLFQ processes need an
// explicit requeue here: a Stride process is already heap-resident by the
// time it sleeps (strideLogic's SLEEPING branch pushes it the moment
// SleepOn departs, and every subsequent pop-while-not-Runnable reinserts
// it, per strideLogic's heap-membership note), so pushing it again here
// would duplicate its heap entry — the same `*Process` pointer on the
// heap twice, inflating stride.size and eventually overrunning the fixed
// heap array. Flipping State to Runnable is enough: the next time it is
// popped, it is found Runnable and actually scheduled.
func (t *Table) Wakeup(cpu *VirtualCPU, ch Chan) {
	t.acquire(cpu)
	t.wakeupLocked(ch)
	t.record(cpu, nil, "wake")
	t.release(cpu)
}

func (t *Table) wakeupLocked(ch Chan) {
	var woken []*Process
	list.Do(t.sleep, func(p *Process) {
		if p.chanWait == ch {
			woken = append(woken, p)
		}
	})
	for _, p := range woken {
		list.Del(p.queue)
		p.chanWait = nil
		p.State = Runnable
		if p.Type == MLFQ {
			t.mlfqEnqueue(p.PrivLevel, p)
		}
	}
}

// Kill marks pid for termination: if it is sleeping it is woken early so it
// observes Killed() and exits at its next syscall boundary (spec §4.4). As
// in Wakeup, a woken Stride process only needs its State flipped, not a
// heap push: it is already heap-resident from the moment it fell asleep.
// Returns ErrUnknownPID if no slot holds that pid.
func (t *Table) Kill(cpu *VirtualCPU, pid int) error {
	t.acquire(cpu)
	defer t.release(cpu)

	for _, p := range t.slots {
		if p.State != Unused && p.PID == pid {
			p.killed.StoreRelease(true)
			if p.State == Sleeping {
				p.State = Runnable
				list.Del(p.queue)
				if p.Type == MLFQ {
					t.mlfqEnqueue(p.PrivLevel, p)
				}
			}
			t.record(cpu, p, "kill")
			return nil
		}
	}
	return ErrUnknownPID
}

// ExitProcess terminates the process currently running on cpu: its
// children are reparented to initProc (initProc is woken if any of them
// is already a Zombie, so it can reap them), its parent is woken in case it is
// blocked in Wait, and the process itself becomes a Zombie pending
// reaping (spec §4.4). It runs the departing process's bookkeeping inline,
// same as Yield/SleepOn.
func (t *Table) ExitProcess(cpu *VirtualCPU, p *Process) {
	if p == t.initProc {
		panic("sched: init exiting")
	}

	t.acquire(cpu)

	list.Do(p.children, func(child *Process) {
		child.parent = t.initProc
		if child.State == Zombie {
			t.wakeupLocked(t.initProc)
		}
	})
	if !p.children.Empty() {
		list.BulkMoveTail(p.children, t.initProc.children)
	}

	if p.Type == MLFQ {
		t.mlfqDequeue(p)
	} else {
		list.Del(p.queue)
		t.mlfq.tickets += p.Tickets
		p.Tickets = 0
	}

	t.wakeupLocked(p.parent)
	p.State = Zombie

	t.sched(cpu, p)
	t.finishDeparture(p)
	t.record(cpu, p, "exit")
	t.release(cpu)
}

// finishDeparture runs the just-departed process's MLFQ (if applicable)
// and Stride pass bookkeeping, the half of the scheduler loop that in the
// original runs immediately after the swtch back into scheduler().
// Caller holds the table lock.
func (t *Table) finishDeparture(p *Process) {
	if p.Type == MLFQ {
		t.mlfqLogic(p)
	}
	t.strideLogic(p)
}

// Wait blocks the calling process until a child exits, reaping the first
// Zombie found and returning its pid (spec §4.4, §6). If no child has
// exited yet, Wait puts the caller to sleep on itself and returns
// iox.ErrWouldBlock: callers drive the retry themselves, typically by
// running the scheduler forward and calling Wait again once woken — a
// better fit here than a synchronous sentinel since the condition really
// is "try again later," not a terminal failure. Returns
// ErrNoChild if the caller has no children or is itself killed.
func (t *Table) Wait(cpu *VirtualCPU, caller *Process) (int, error) {
	t.acquire(cpu)

	if caller.children.Empty() {
		t.release(cpu)
		return 0, ErrNoChild
	}

	var zombie *Process
	list.Do(caller.children, func(child *Process) {
		if zombie == nil && child.State == Zombie {
			zombie = child
		}
	})
	if zombie != nil {
		pid := zombie.PID
		list.Del(zombie.sibling)
		t.freeProcessLocked(zombie)
		t.release(cpu)
		return pid, nil
	}

	if caller.Killed() {
		t.release(cpu)
		return 0, ErrNoChild
	}

	t.sleepLocked(caller, caller)
	t.release(cpu)
	return 0, iox.ErrWouldBlock
}

// freeProcessLocked returns a reaped Zombie's resources to their owners and
// the slot itself to the free list. Caller holds the table lock.
func (t *Table) freeProcessLocked(p *Process) {
	t.ks.Free(p.KernelStack)
	t.vm.FreeVM(p.PageTable)
	for _, fd := range p.Files {
		t.fs.Close(fd)
	}
	t.fs.IPut(p.Cwd)

	children, sibling, queue := p.children, p.sibling, p.queue
	*p = Process{children: children, sibling: sibling, queue: queue}
	p.children.Init()

	p.State = Unused
	list.AddTail(t.free, p.queue)
}

// IncTick advances the scheduler's own notion of elapsed hardware ticks by
// one, the timer-interrupt side of the allotment/quantum counters. In this
// module ticks are instead counted implicitly by StepOnce-driven calls
// into mlfqLogic; IncTick exists for callers (cmd/schedsim's idle path)
// that want to account a tick with no process attached to it.
func (t *Table) IncTick(cpu *VirtualCPU) {
	t.acquire(cpu)
	t.mlfqLogic(nil)
	t.release(cpu)
}
