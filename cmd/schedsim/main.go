// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command schedsim drives a single-CPU hybrid MLFQ/Stride table for a fixed
// number of ticks, printing a Dump of the process table at the end. It
// exists to exercise the scheduler core end to end against hal.Fake, not as
// a real kernel boot path.
package main

import (
	"flag"
	"fmt"
	"os"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/schedcore/internal/hal"
	"code.hybscloud.com/schedcore/internal/sched"
)

func main() {
	ticks := flag.Int("ticks", 200, "number of scheduler ticks to simulate")
	workers := flag.Int("workers", 3, "number of MLFQ child processes to fork")
	share := flag.Int("share", 40, "CPU share (percent) the last forked child requests via SetCPUShare")
	flag.Parse()

	fake := hal.NewFake()
	table := sched.NewTable(sched.DefaultConfig(), 1, fake, fake, fake, fake)
	cpu := table.CPU(0)

	root, err := table.Init(cpu, "init", nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init:", err)
		os.Exit(1)
	}

	children := make([]*sched.Process, 0, *workers)
	for i := 0; i < *workers; i++ {
		child, err := table.Fork(cpu, root)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fork:", err)
			os.Exit(1)
		}
		child.Name = fmt.Sprintf("worker%d", i)
		children = append(children, child)
	}

	if last := children[len(children)-1]; len(children) > 0 {
		if err := table.SetCPUShare(cpu, last, *share); err != nil {
			fmt.Fprintln(os.Stderr, "set_cpu_share:", err)
		}
	}

	for i := 0; i < *ticks; i++ {
		p := cpu.StepOnce()
		if p == nil {
			table.IncTick(cpu)
			continue
		}
		table.Yield(cpu, p) // every worker in this demo is CPU-bound: it always runs a full tick then yields
	}

	// Demonstrate the retry contract a blocking wait() exposes: init has no
	// exited children yet, so the first call always would-block.
	if _, err := table.Wait(cpu, root); iox.IsWouldBlock(err) {
		fmt.Println("wait: no zombie children yet (would block)")
	}

	fmt.Printf("ran %d ticks, %d context switches\n", *ticks, fake.Switches())
	table.Dump(os.Stdout)

	fmt.Println("--- trace ---")
	table.TraceDump(os.Stdout)
}
