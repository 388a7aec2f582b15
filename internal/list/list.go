// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package list implements a cyclic intrusive doubly-linked list with a
// sentinel header, modeled on the Linux-style list_head used by the
// scheduler core it supports.
//
// Unlike the C original, a Head knows the struct that owns it (the "entry")
// directly rather than via container_of pointer arithmetic: embed a
// *Head[T] in T and construct it with New, pointing back at the owner.
package list

// Head is a node in an intrusive list of entries of type T. The zero value
// is not ready to use; construct with New.
type Head[T any] struct {
	next, prev *Head[T]
	entry      *T
}

// New creates a detached, single-element list node owned by entry.
func New[T any](entry *T) *Head[T] {
	h := &Head[T]{entry: entry}
	h.next = h
	h.prev = h
	return h
}

// Entry returns the struct that owns this node (xv6's list_entry/
// first_entry, without the pointer arithmetic).
func (h *Head[T]) Entry() *T { return h.entry }

// Init resets h to a single-element cyclic list. Used for sentinel headers
// and to mark a just-spliced-away source header as empty.
func (h *Head[T]) Init() {
	h.next = h
	h.prev = h
}

// Empty reports whether h (used as a sentinel header) has no entries.
func (h *Head[T]) Empty() bool {
	return h.next == h
}

// Add inserts node right after h.
func Add[T any](h, node *Head[T]) {
	node.next = h.next
	node.prev = h
	h.next.prev = node
	h.next = node
}

// AddTail inserts node right before h, i.e. at the tail when h is the
// sentinel header.
func AddTail[T any](h, node *Head[T]) {
	Add(h.prev, node)
}

// Del removes node from whatever list it is on. It touches only node's
// neighbors, never an external cursor into the list — a caller keeping a
// cursor pointing at node must advance the cursor itself before calling Del.
func Del[T any](node *Head[T]) {
	node.prev.next = node.next
	node.next.prev = node.prev
	node.next = nil
	node.prev = nil
}

// FirstEntry returns the entry at the head of the list rooted at h, or nil
// if empty.
func FirstEntry[T any](h *Head[T]) *T {
	if h.Empty() {
		return nil
	}
	return h.next.entry
}

// BulkMoveTail splices every entry of src onto the tail of dst, in order,
// leaving src empty. No-op if src is empty.
func BulkMoveTail[T any](src, dst *Head[T]) {
	if src.Empty() {
		return
	}
	first := src.next
	last := src.prev

	first.prev = dst.prev
	dst.prev.next = first

	last.next = dst
	dst.prev = last

	src.Init()
}

// IsHead reports whether node is h itself, i.e. a traversal has come back
// around to the sentinel.
func IsHead[T any](node, h *Head[T]) bool {
	return node == h
}

// Next returns the successor of node.
func (h *Head[T]) Next() *Head[T] { return h.next }

// Prev returns the predecessor of node.
func (h *Head[T]) Prev() *Head[T] { return h.prev }

// Do calls f for every entry in the list rooted at h, in order. f must not
// mutate the list.
func Do[T any](h *Head[T], f func(*T)) {
	for n := h.next; !IsHead(n, h); n = n.next {
		f(n.entry)
	}
}
