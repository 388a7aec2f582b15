// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "code.hybscloud.com/schedcore/internal/list"

// pushHeap inserts p into the 1-indexed Stride min-heap, sifting up.
// Caller holds the table lock.
func (t *Table) pushHeap(p *Process) {
	heap := t.stride.heap
	t.stride.size++
	i := t.stride.size
	for i != 1 && p.Pass < heap[i/2].Pass {
		heap[i] = heap[i/2]
		i /= 2
	}
	heap[i] = p
}

// popHeap removes and returns the minimum-pass process, refilling the
// root with the last element and sifting down (ties broken toward the
// smaller-pass child). Caller holds the table lock and ensures size > 0.
func (t *Table) popHeap() *Process {
	heap := t.stride.heap
	min := heap[1]
	last := heap[t.stride.size]
	t.stride.size--

	parent, child := 1, 2
	for ; child <= t.stride.size; parent, child = child, child*2 {
		if child < t.stride.size && heap[child].Pass > heap[child+1].Pass {
			child++
		}
		if last.Pass <= heap[child].Pass {
			break
		}
		heap[parent] = heap[child]
	}
	heap[parent] = last
	return min
}

// getMinPass returns the Stride heap's minimum pass, or Config.MaxInt if
// the heap is empty so the MLFQ side always wins the scheduling compare.
func (t *Table) getMinPass() int64 {
	if t.stride.size > 0 {
		return t.stride.heap[1].Pass
	}
	return t.cfg.MaxInt
}

// strideLogic runs the per-scheduler-iteration Stride pass accounting for
// p, the process that just ran (nil if the CPU was idle). It overflow-
// rebases before advancing, per spec §4.3. Caller holds the table lock.
func (t *Table) strideLogic(p *Process) {
	var minPass int64
	if p == nil || p.Type == MLFQ {
		minPass = t.mlfq.pass
	} else {
		minPass = p.Pass
	}

	if minPass > t.cfg.Barrier {
		for i := 1; i <= t.stride.size; i++ {
			t.stride.heap[i].Pass -= minPass
		}
		list.Do(t.stride.run, func(pr *Process) {
			pr.Pass -= minPass
		})
		t.mlfq.pass -= minPass
	}

	switch {
	case p == nil || p.Type == MLFQ:
		t.mlfq.pass += t.cfg.stride(t.mlfq.tickets)
	case p.Type == Stride:
		if p.State == Runnable || p.State == Sleeping {
			p.Pass += t.cfg.stride(p.Tickets)
			t.pushHeap(p)
		}
	}
}

// SetCPUShare migrates the calling process from MLFQ to Stride with the
// given ticket share, reserving tickets from the MLFQ pool (spec §4.3).
// Fails with ErrInvalidShare if share is out of [1, 100-Reserve], or
// ErrShareDenied if granting it would leave mlfq.tickets below Reserve.
// A process already on Stride may call this again to adjust its share
// (its prior tickets are folded back into the pool before admission).
// A migrating process that is RUNNING goes on the stride run list, and
// reaches the pass heap when it next yields or sleeps; one that is not
// running goes straight onto the pass heap.
func (t *Table) SetCPUShare(cpu *VirtualCPU, caller *Process, share int) error {
	if share < 1 || share > 100-t.cfg.Reserve {
		return ErrInvalidShare
	}

	t.acquire(cpu)
	defer t.release(cpu)

	remain := t.mlfq.tickets
	if caller.Type == Stride {
		remain += caller.Tickets
	}
	if remain-share < t.cfg.Reserve {
		return ErrShareDenied
	}

	if caller.Type == MLFQ {
		t.mlfqDequeue(caller)
		minPass := t.getMinPass()
		mlfqPass := t.mlfq.pass
		if minPass < mlfqPass {
			caller.Pass = minPass
		} else {
			caller.Pass = mlfqPass
		}
		caller.Type = Stride
		if caller.State == Running {
			list.Add(t.stride.run, caller.queue)
		} else {
			t.pushHeap(caller)
		}
	}
	t.mlfq.tickets = remain - share
	caller.Tickets = share
	return nil
}
