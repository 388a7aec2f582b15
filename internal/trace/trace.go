// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package trace

import "code.hybscloud.com/atomix"

// Event is one scheduler occurrence: a CPU switching to a process, or a
// process changing state via Yield/SleepOn/ExitProcess/Kill/Wakeup.
type Event struct {
	CPU  int
	PID  int
	Kind string
}

type pad [64]byte

type slot struct {
	seq  atomix.Uint64 // 0 until first write; thereafter the 1-based write index
	data Event
	_    pad
}

// Buffer is a lock-free, multi-producer single-consumer ring of the most
// recent Events. Unlike a capacity-bounded queue, Record never fails and
// never blocks a producer: once the ring is full a new Record overwrites
// the oldest still-unread entry. That is the right tradeoff for a
// diagnostic trace, where "the last N things that happened" is what a
// consumer wants and a slow consumer must never make a scheduling
// decision wait — see DESIGN.md for why this departs from a
// backpressure-on-full queue.
//
// Producers claim a slot with a fetch-and-add on tail; the single
// consumer tracks its own read cursor and, if it falls behind by more
// than the ring's capacity, skips forward to the oldest entry that
// survived being overwritten.
type Buffer struct {
	_    pad
	tail atomix.Uint64 // next slot index to claim (producers, FAA)
	_    pad

	buffer   []slot
	capacity uint64
	mask     uint64
	read     uint64 // consumer-only cursor, not shared with producers
}

// NewBuffer creates a trace ring holding the most recent capacity events.
// Capacity rounds up to the next power of 2.
func NewBuffer(capacity int) *Buffer {
	if capacity < 2 {
		capacity = 2
	}
	n := uint64(roundToPow2(capacity))
	return &Buffer{
		buffer:   make([]slot, n),
		capacity: n,
		mask:     n - 1,
	}
}

// Record claims the next slot and writes ev into it, overwriting whatever
// stale entry (if any) previously occupied that slot. Safe for any number
// of concurrent producers.
func (b *Buffer) Record(ev Event) {
	idx := b.tail.AddAcqRel(1) - 1
	s := &b.buffer[idx&b.mask]
	s.data = ev
	s.seq.StoreRelease(idx + 1)
}

// Next returns the oldest event the consumer has not yet read. If
// producers have overwritten it since, Next skips forward to the oldest
// surviving entry instead of returning stale or torn data. Returns
// (zero-value, false) once the consumer has caught up to every Record
// call observed so far. Single consumer only.
func (b *Buffer) Next() (Event, bool) {
	for {
		tail := b.tail.LoadAcquire()
		if b.read >= tail {
			return Event{}, false
		}

		s := &b.buffer[b.read&b.mask]
		want := b.read + 1
		seq := s.seq.LoadAcquire()
		switch {
		case seq == want:
			ev := s.data
			b.read++
			return ev, true
		case seq > want:
			// Overwritten by later producers before we got to it: drop
			// forward to the oldest entry that is still intact.
			b.read = seq - b.capacity
		default:
			// Claimed but not yet published; nothing more to read right now.
			return Event{}, false
		}
	}
}

// Drain appends every currently-available event to dst, oldest first, and
// returns it — the bulk-consumer counterpart to repeated Next calls.
func (b *Buffer) Drain(dst []Event) []Event {
	for {
		ev, ok := b.Next()
		if !ok {
			return dst
		}
		dst = append(dst, ev)
	}
}

// Cap returns the ring's capacity.
func (b *Buffer) Cap() int { return int(b.capacity) }

func roundToPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
