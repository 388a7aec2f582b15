// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hal declares the hardware/kernel collaborator interfaces the
// scheduler core consumes and never implements: page-table and virtual
// memory primitives, the file system, and the context-switch primitive.
// These are explicitly out of scope for the core (see the module's
// out-of-scope list) — hal exists only so the core can be exercised
// without a real kernel underneath it.
package hal

// PageTable is an opaque handle to a process's address space.
type PageTable any

// FileDescriptor is an opaque handle into a process's open-file table.
type FileDescriptor any

// Inode is an opaque handle to an on-disk or in-memory directory entry.
type Inode any

// Context holds a process's saved callee-saved register state across a
// context switch. Its layout is architecture-specific and irrelevant to
// the scheduler core, which only ever swaps pointers to it.
type Context any

// ContextSwitcher performs the architecture-specific context switch: save
// the caller's callee-saved registers into from, load the callee-saved
// registers of to, and resume execution there. Switch does not return
// until some other Switch call resumes the original caller.
type ContextSwitcher interface {
	Switch(from, to *Context)
}

// VM provides the virtual-memory primitives fork/exec/exit need. Every
// method here is a named out-of-scope collaborator: the scheduler core
// calls them at the right lifecycle points but never inspects a
// PageTable's contents.
type VM interface {
	SetupKVM() (PageTable, error)
	InitUVM(pt PageTable, data []byte)
	AllocUVM(pt PageTable, oldSize, newSize uintptr) (uintptr, error)
	DeallocUVM(pt PageTable, oldSize, newSize uintptr) (uintptr, error)
	CopyUVM(pt PageTable, size uintptr) (PageTable, error)
	FreeVM(pt PageTable)
	SwitchUVM(pt PageTable)
	SwitchKVM()
}

// FileSystem provides the file-descriptor and path-resolution primitives
// exit/fork need, entirely opaque to the scheduler core.
type FileSystem interface {
	Dup(fd FileDescriptor) FileDescriptor
	Close(fd FileDescriptor)
	IDup(inode Inode) Inode
	IPut(inode Inode)
	Namei(path string) (Inode, error)
	BeginOp()
	EndOp()
}

// KernelStack allocates and frees the per-process kernel stack.
type KernelStack interface {
	Alloc() (uintptr, error)
	Free(stack uintptr)
}
