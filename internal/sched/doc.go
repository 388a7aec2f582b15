// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sched implements a hybrid MLFQ/Stride process scheduler core: a
// fixed process table guarded by one coarse spinlock, a multi-level
// feedback queue for the default share of CPU time, and a stride
// (proportional-share) scheduler a process can opt into via SetCPUShare.
//
// The package owns scheduling policy only. Address spaces, file
// descriptors, and the machine-specific context switch are named
// collaborators in internal/hal, supplied by whatever embeds this package.
package sched
