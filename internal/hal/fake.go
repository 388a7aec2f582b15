// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hal

import "fmt"

// Fake is an in-memory stand-in for a real kernel's VM, FileSystem, and
// ContextSwitcher, sufficient to drive the scheduler core's bookkeeping in
// tests and cmd/schedsim without real page tables or trap frames.
type Fake struct {
	nextAddr uintptr
	running  map[int]bool // by simulated context id, for diagnostics only
	switches int
}

// NewFake creates a ready-to-use Fake collaborator set.
func NewFake() *Fake {
	return &Fake{running: make(map[int]bool)}
}

// SetupKVM returns a fresh opaque address space handle.
func (f *Fake) SetupKVM() (PageTable, error) {
	f.nextAddr++
	return f.nextAddr, nil
}

// InitUVM is a no-op: no real memory backs the fake address space.
func (f *Fake) InitUVM(PageTable, []byte) {}

// AllocUVM reports success and returns newSize; the fake records no size.
func (f *Fake) AllocUVM(_ PageTable, _, newSize uintptr) (uintptr, error) {
	return newSize, nil
}

// DeallocUVM reports success and returns newSize; the fake records no size.
func (f *Fake) DeallocUVM(_ PageTable, _, newSize uintptr) (uintptr, error) {
	return newSize, nil
}

// CopyUVM returns a fresh address space handle standing in for a
// copy-on-fork of pt.
func (f *Fake) CopyUVM(PageTable, uintptr) (PageTable, error) {
	f.nextAddr++
	return f.nextAddr, nil
}

// FreeVM is a no-op.
func (f *Fake) FreeVM(PageTable) {}

// SwitchUVM is a no-op.
func (f *Fake) SwitchUVM(PageTable) {}

// SwitchKVM is a no-op.
func (f *Fake) SwitchKVM() {}

// Dup returns fd unchanged: the fake has no reference counting.
func (f *Fake) Dup(fd FileDescriptor) FileDescriptor { return fd }

// Close is a no-op.
func (f *Fake) Close(FileDescriptor) {}

// IDup returns inode unchanged.
func (f *Fake) IDup(inode Inode) Inode { return inode }

// IPut is a no-op.
func (f *Fake) IPut(Inode) {}

// Namei resolves any path to itself as an opaque inode handle.
func (f *Fake) Namei(path string) (Inode, error) { return path, nil }

// BeginOp is a no-op: no on-disk log transaction to join.
func (f *Fake) BeginOp() {}

// EndOp is a no-op.
func (f *Fake) EndOp() {}

// Alloc returns a distinct fake kernel-stack address.
func (f *Fake) Alloc() (uintptr, error) {
	f.nextAddr++
	return f.nextAddr, nil
}

// Free is a no-op.
func (f *Fake) Free(uintptr) {}

// Switch records that a context switch happened; it does not actually
// transfer control since the simulated processes have no real machine
// state to run.
func (f *Fake) Switch(from, to *Context) {
	f.switches++
}

// Switches returns the number of Switch calls observed, for assertions in
// tests that want to confirm the scheduler loop actually ran.
func (f *Fake) Switches() int { return f.switches }

// String implements fmt.Stringer for debug output.
func (f *Fake) String() string {
	return fmt.Sprintf("hal.Fake{switches=%d}", f.switches)
}
