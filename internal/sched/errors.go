// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "errors"

// Recoverable failures, surfaced to the caller rather than panicking (spec
// §7 case 1). Each corresponds to exactly one -1-returning syscall path in
// the original source.
//
// These are plain sentinel errors, checked with errors.Is, rather than
// routed through code.hybscloud.com/iox: iox models a would-block/retry
// control-flow signal for non-blocking concurrent data structures, and
// every condition below is a synchronous kernel syscall that fails once
// with nothing to retry. See DESIGN.md for the full rationale.
var (
	// ErrNoFreeSlot is returned by Fork (via allocproc) when the process
	// table has no UNUSED slot available.
	ErrNoFreeSlot = errors.New("sched: no free process slot")

	// ErrForkVM is returned by Fork when the collaborator VM fails to
	// copy the parent's address space (copyuvm).
	ErrForkVM = errors.New("sched: fork: address space copy failed")

	// ErrNoChild is returned by Wait when the caller has no children, or
	// is itself killed and no zombie child was found.
	ErrNoChild = errors.New("sched: wait: no children")

	// ErrInvalidShare is returned by SetCPUShare when share is outside
	// [1, 100-Reserve].
	ErrInvalidShare = errors.New("sched: set_cpu_share: share out of range")

	// ErrShareDenied is returned by SetCPUShare when granting the
	// requested share would leave the MLFQ side below its reserve.
	ErrShareDenied = errors.New("sched: set_cpu_share: would breach mlfq reserve")

	// ErrUnknownPID is returned by Kill when no process has the given pid.
	ErrUnknownPID = errors.New("sched: kill: unknown pid")
)
