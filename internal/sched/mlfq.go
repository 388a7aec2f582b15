// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "code.hybscloud.com/schedcore/internal/list"

// mlfqEnqueue appends p to level l's tail. Caller holds the table lock.
func (t *Table) mlfqEnqueue(level int, p *Process) {
	list.AddTail(t.mlfq.queue[level], p.queue)
}

// mlfqDequeue removes p from its MLFQ level. If the level's round-robin
// pin pointed at p, the pin is advanced to p's successor first, so
// deletion never invalidates a cursor — exactly the contract Del
// documents. Caller holds the table lock.
func (t *Table) mlfqDequeue(p *Process) {
	pin := &t.mlfq.pin[p.PrivLevel]
	if *pin == p.queue {
		*pin = p.queue.Next()
	}
	list.Del(p.queue)
}

// mlfqSelect scans levels 0 upward; within a level it walks the circular
// list once starting from the pin, looking for a RUNNABLE process. The
// first match wins and becomes the new pin for that level. Returns nil if
// no MLFQ process is runnable. Caller holds the table lock.
func (t *Table) mlfqSelect() *Process {
	for l := 0; l < t.cfg.QSize; l++ {
		q := t.mlfq.queue[l]
		pin := t.mlfq.pin[l]
		itr := pin
		for {
			if !list.IsHead(itr, q) {
				if p := itr.Entry(); p.State == Runnable {
					t.mlfq.pin[l] = itr
					return p
				}
			}
			itr = itr.Next()
			if itr == pin {
				break
			}
		}
	}
	return nil
}

// concatQueue splices level src's queue onto the tail of level dst,
// preserving FIFO order, and, if dst was empty, moves src's pin over to
// dst when it points at one of src's entries (a pin left on src's own
// sentinel is not carried over). src's pin is reset to its own (now-empty)
// header. Caller holds the table lock.
func (t *Table) concatQueue(src, dst int) {
	srcQ := t.mlfq.queue[src]
	dstQ := t.mlfq.queue[dst]

	if dstQ.Empty() && t.mlfq.pin[src] != srcQ {
		t.mlfq.pin[dst] = t.mlfq.pin[src]
	}
	t.mlfq.pin[src] = srcQ

	list.BulkMoveTail(srcQ, dstQ)
}

// mlfqLogic runs the per-tick MLFQ bookkeeping for p, the process that
// just ran (or nil if the CPU was idle). Caller holds the table lock.
func (t *Table) mlfqLogic(p *Process) {
	t.mlfq.ticks++

	if p != nil {
		switch p.State {
		case Runnable:
			p.Ticks++
			if p.PrivLevel < t.baseLevel() && p.Ticks%t.allotmentAt(p.PrivLevel) == 0 {
				t.mlfqDequeue(p)
				p.PrivLevel++
				p.Ticks = 0
				t.mlfqEnqueue(p.PrivLevel, p)
			} else if p.Ticks%t.quantumAt(p.PrivLevel) == 0 {
				t.mlfq.pin[p.PrivLevel] = p.queue.Next()
			}
		case Sleeping:
			if p.PrivLevel < t.baseLevel() && p.Ticks >= t.allotmentAt(p.PrivLevel) {
				p.PrivLevel++
				p.Ticks = 0
			} else {
				tq := t.quantumAt(p.PrivLevel)
				p.Ticks = p.Ticks / tq * tq
			}
		case Zombie:
			// no-op
		default:
			panic("sched: mlfqLogic: unexpected state " + p.State.String())
		}
	}

	if t.mlfq.ticks%t.cfg.BoostInterval == 0 {
		t.priorityBoost()
	}
}

// priorityBoost resets every MLFQ process — across every non-zero ready
// level and the shared sleep list — to level 0 with a clean allotment,
// and concatenates each level's queue onto level 0's tail.
func (t *Table) priorityBoost() {
	for l := 1; l <= t.baseLevel(); l++ {
		list.Do(t.mlfq.queue[l], func(p *Process) {
			p.PrivLevel = 0
			p.Ticks = 0
		})
		t.concatQueue(l, 0)
	}
	list.Do(t.sleep, func(p *Process) {
		if p.Type == MLFQ {
			p.PrivLevel = 0
			p.Ticks = 0
		}
	})
}
