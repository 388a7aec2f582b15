// Copyright 2026 The schedcore Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package trace is a lock-free, multi-producer single-consumer event
// buffer for scheduler diagnostics. Every virtual CPU records a switch or
// state-transition event without touching the table's coarse lock; a
// single consumer (Table.TraceDump, or a test) drains the buffer afterward.
package trace
