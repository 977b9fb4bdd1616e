// Copyright 2024 The Heapcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package heapcore implements a user-space heap allocator over a single
// contiguous byte region supplied by the caller at Init time. It never
// requests additional memory from the operating system.
//
// Two variants are provided. Implicit walks every block on each
// allocation (first fit over the full block table). Explicit threads a
// doubly-linked, LIFO free list through the bytes of free blocks
// themselves and coalesces with the immediate right neighbor on Free
// and Reallocate.
//
// Both variants share the same block layout: a fixed-size header word
// encoding a payload size and an in-use flag, followed by the payload.
// Blocks tile the region exactly; there are never gaps or overlaps.
//
// Package heapcore is not goroutine-safe. Callers needing concurrent
// access must serialize calls with their own locking.
package heapcore

// Allocator is the shared surface of Implicit and Explicit.
type Allocator interface {
	Init(region []byte, opts ...Option) bool
	Allocate(size int) []byte
	Free(p []byte)
	Reallocate(p []byte, size int) []byte
	Validate() bool
	Dump()
}

var _ Allocator = (*Implicit)(nil)
var _ Allocator = (*Explicit)(nil)
