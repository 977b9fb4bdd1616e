package heapcore

import "unsafe"

// base holds the state shared by Implicit and Explicit: the region
// bytes, the running block count, configuration and counters. Neither
// variant's zero value is ready for use (unlike the teacher's
// OS-backed Allocator) because a region must be supplied via Init.
type base struct {
	region     []byte
	blockCount int
	cfg        Config
	allocs     int
	frees      int
	ready      bool
}

func (b *base) initRegion(region []byte, minCapacity int, opts ...Option) bool {
	b.cfg = newConfig(opts...)
	if len(region) < minCapacity {
		return false
	}
	b.region = region
	b.blockCount = 1
	setHeaderAt(b.region, 0, encodeHeader(len(region)-headerSize, false))
	b.ready = true
	b.allocs, b.frees = 0, 0
	return true
}

// tilingWalk walks every block, invoking visit, and returns the
// summed span and free-block count. Used by Validate in both variants
// to check the tiling invariant (spec.md §8 invariant 1).
func (b *base) tilingWalk(visit func(off int, h header)) (span, freeBlocks int) {
	walkBlocks(b.region, b.blockCount, func(off int, h header) {
		span += headerSize + h.trueSize()
		if !h.isUsed() {
			freeBlocks++
		}
		if visit != nil {
			visit(off, h)
		}
	})
	return span, freeBlocks
}

// payloadView returns length bytes of the block at headerOff, capped
// at its true size so callers can grow in place via re-slicing up to
// cap without crossing into the next block. Both allocators return
// slices of len == requested size, cap == the block's true size.
func (b *base) payloadView(headerOff, length int) []byte {
	h := headerAt(b.region, headerOff)
	p := payloadOffset(headerOff)
	return b.region[p : p+length : p+h.trueSize()]
}

// headerOffsetOf recovers a block's header offset from a payload slice
// previously handed to a caller, via pointer arithmetic against the
// region's backing array. Grounded on cznic/memory's page-mask trick
// (memory.go:193) generalized from "round down to page boundary" to
// "subtract from the region's base address".
func (b *base) headerOffsetOf(p []byte) int {
	base := uintptr(unsafe.Pointer(&b.region[0]))
	addr := uintptr(unsafe.Pointer(&p[0]))
	return int(addr-base) - headerSize
}

func (b *base) checkRequest(size int) error {
	if size == 0 {
		return ErrInvalidRequest
	}
	if size > b.cfg.MaxRequestSize {
		return ErrRequestTooLarge
	}
	return nil
}

func (b *base) minFreeBlockSize() int { return b.cfg.linkNodeSize() }
