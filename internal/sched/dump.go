// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"fmt"
	"io"
)

// Dump writes one line per non-UNUSED process table slot, the Go
// equivalent of procdump's Ctrl-P debug listing: pid, state, type, level,
// ticks, and name.
func (t *Table) Dump(w io.Writer) {
	for _, p := range t.slots {
		if p.State == Unused {
			continue
		}
		fmt.Fprintf(w, "%d %-6s %-6s level=%d ticks=%d %s\n",
			p.PID, p.State, p.Type, p.PrivLevel, p.Ticks, p.Name)
	}
}

// TraceDump drains the table's lock-free event buffer and writes one line
// per event, oldest first. Intended for debugging/cmd/schedsim, not for
// use on a hot scheduling path.
func (t *Table) TraceDump(w io.Writer) {
	for _, ev := range t.events.Drain(nil) {
		fmt.Fprintf(w, "cpu=%d pid=%d %s\n", ev.CPU, ev.PID, ev.Kind)
	}
}
