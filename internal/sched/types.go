// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/schedcore/internal/hal"
	"code.hybscloud.com/schedcore/internal/list"
)

// State is a process's run state.
type State int

const (
	Unused State = iota
	Embryo
	Runnable
	Running
	Sleeping
	Zombie
)

// String implements fmt.Stringer, matching the order procdump prints.
func (s State) String() string {
	switch s {
	case Unused:
		return "unused"
	case Embryo:
		return "embryo"
	case Runnable:
		return "runble"
	case Running:
		return "run"
	case Sleeping:
		return "sleep"
	case Zombie:
		return "zombie"
	default:
		return "???"
	}
}

// ProcType selects which sub-scheduler a process belongs to.
type ProcType int

const (
	// MLFQ is the default type every process forks into.
	MLFQ ProcType = iota
	// Stride is entered only via SetCPUShare.
	Stride
)

func (t ProcType) String() string {
	if t == Stride {
		return "stride"
	}
	return "mlfq"
}

// Chan is an opaque sleep-channel identifier. Two processes sleeping on
// equal Chan values are woken together by Wakeup.
type Chan any

// Process is one process table slot (spec §3). The zero value is an UNUSED
// slot once its list nodes are wired up by newProcess.
type Process struct {
	// identity
	PID      int
	Name     string
	parent   *Process
	children *list.Head[Process] // sentinel: head of this process's children
	sibling  *list.Head[Process] // this process's node in parent.children

	// execution context (out-of-scope collaborators own the contents)
	PageTable   hal.PageTable
	Size        uintptr
	KernelStack uintptr
	Context     *hal.Context

	Files []hal.FileDescriptor
	Cwd   hal.Inode

	// scheduling fields (spec §3)
	State     State
	Type      ProcType
	queue     *list.Head[Process] // membership: free/mlfq level/stride run/sleep
	PrivLevel int
	Ticks     int
	Tickets   int
	Pass      int64
	chanWait  Chan
	killed    atomix.Bool
}

// newProcess allocates a Process with its intrusive list nodes wired to
// point back at itself, ready to be placed on the free list.
func newProcess() *Process {
	p := &Process{}
	p.children = list.New(p)
	p.children.Init()
	p.sibling = list.New(p)
	p.queue = list.New(p)
	return p
}

// Killed reports whether the process has been marked for termination. It
// is sticky: once set it is never cleared. Read without the table lock by
// the (simulated) trap-return path, hence the atomic backing.
func (p *Process) Killed() bool { return p.killed.LoadAcquire() }

// Parent returns the process's parent, or nil for initproc.
func (p *Process) Parent() *Process { return p.parent }
