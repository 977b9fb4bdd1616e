package heapcore

// Explicit is the LIFO free-list allocator: free blocks are threaded
// into a doubly-linked list living inside their own payload bytes.
// Allocate searches the free list instead of the whole block table;
// Free and Reallocate coalesce with the immediate right neighbor only.
//
// Grounded on cznic/memory's free-list push/remove/coalesce logic in
// Free/UnsafeFree (memory.go:199-232), generalized from same-size
// slots within one page to arbitrary-size blocks across the whole
// region, and on original_source/explicit.c's add_to_beg/remove_node/
// coalesce functions for the endpoint and in-place-realloc rules that
// the teacher's size-classed design has no equivalent for.
type Explicit struct {
	base
	freeList freeList
}

// Init installs region as the allocator's backing store. Returns false
// if region cannot hold one header plus one link node.
func (ex *Explicit) Init(region []byte, opts ...Option) bool {
	min := headerSize + newConfig(opts...).linkNodeSize()
	if !ex.initRegion(region, min, opts...) {
		return false
	}
	ex.freeList = freeList{head: 0}
	writeLink(ex.region, 0, link{prev: nullOffset, next: nullOffset})
	return true
}

// TryInit is Init's error-returning counterpart.
func (ex *Explicit) TryInit(region []byte, opts ...Option) error {
	if !ex.Init(region, opts...) {
		return ErrCapacityTooSmall
	}
	return nil
}

// Allocate searches the free list for the first block large enough,
// splitting off the tail only when the accepted block is the last one
// in the region (spec.md §4.5).
func (ex *Explicit) Allocate(size int) []byte {
	p, _ := ex.TryAllocate(size)
	return p
}

// TryAllocate is Allocate's error-returning counterpart.
func (ex *Explicit) TryAllocate(size int) ([]byte, error) {
	if !ex.ready {
		return nil, ErrNotInitialized
	}
	if err := ex.checkRequest(size); err != nil {
		return nil, err
	}
	need := roundUp(size, ex.cfg.Alignment)

	found := int64(nullOffset)
	for cur := ex.freeList.head; cur != nullOffset; {
		h := headerAt(ex.region, int(cur))
		if h.trueSize() >= need {
			found = cur
			break
		}
		cur = readLink(ex.region, int(cur)).next
	}
	if found == nullOffset {
		return nil, ErrOutOfMemory
	}

	off := int(found)
	ex.freeList.remove(ex.region, off)
	h := headerAt(ex.region, off)

	last := off+headerSize+h.trueSize() == len(ex.region)
	if last {
		accepted := max(need, ex.minFreeBlockSize())
		remainder := h.trueSize() - accepted - headerSize
		if remainder >= ex.minFreeBlockSize() {
			setHeaderAt(ex.region, off, encodeHeader(accepted, true))
			tailOff := off + headerSize + accepted
			setHeaderAt(ex.region, tailOff, encodeHeader(remainder, false))
			ex.blockCount++
			ex.freeList.pushFront(ex.region, tailOff)
			ex.allocs++
			return ex.payloadView(off, size), nil
		}
	}

	setHeaderAt(ex.region, off, h.setUsed())
	ex.allocs++
	return ex.payloadView(off, size), nil
}

// Free marks p's block free and coalesces it with its immediate right
// neighbor if that neighbor is also free and within the region
// (spec.md §4.6). Only the right neighbor is ever merged.
func (ex *Explicit) Free(p []byte) {
	_ = ex.TryFree(p)
}

// TryFree is Free's error-returning counterpart.
func (ex *Explicit) TryFree(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if !ex.ready {
		return ErrNotInitialized
	}
	off := ex.headerOffsetOf(p)
	h := headerAt(ex.region, off).clearUsed()
	setHeaderAt(ex.region, off, h)
	ex.frees++

	rightOff := off + headerSize + h.trueSize()
	if rightOff < len(ex.region) {
		rh := headerAt(ex.region, rightOff)
		if !rh.isUsed() {
			merged := h.trueSize() + headerSize + rh.trueSize()
			setHeaderAt(ex.region, off, encodeHeader(merged, false))
			ex.blockCount--
			ex.freeList.remove(ex.region, rightOff)
			ex.freeList.pushFront(ex.region, off)
			return nil
		}
	}
	ex.freeList.pushFront(ex.region, off)
	return nil
}

// Reallocate resizes the block at p to size bytes, coalescing forward
// with free right neighbors in place before falling back to a moving
// allocate+copy+free. See spec.md §4.7 for the full seven-step
// algorithm; grounded directly on original_source/explicit.c's
// myrealloc, which has no analogue in the teacher (an OS-backed
// allocator has no in-place neighbor to coalesce with).
func (ex *Explicit) Reallocate(p []byte, size int) []byte {
	r, _ := ex.TryReallocate(p, size)
	return r
}

// TryReallocate is Reallocate's error-returning counterpart. On
// allocate failure during the fallback move, the old block is left
// used and its contents (within its original length) are unchanged.
func (ex *Explicit) TryReallocate(p []byte, size int) ([]byte, error) {
	if len(p) == 0 {
		return ex.TryAllocate(size)
	}
	if size == 0 {
		return nil, ex.TryFree(p)
	}
	if !ex.ready {
		return nil, ErrNotInitialized
	}

	off := ex.headerOffsetOf(p)
	h := headerAt(ex.region, off)
	if h.trueSize() >= size {
		return p[:size], nil
	}

	minSize := ex.minFreeBlockSize()
	saved := make([]byte, minSize)
	copy(saved, p[:minSize])

	// Step 2: transiently mark free so the coalesce loop below can
	// treat this block like any other free block.
	setHeaderAt(ex.region, off, h.clearUsed())

	// Step 3: absorb free right neighbors one at a time.
	coalesced := false
	for cur := off; ; {
		curH := headerAt(ex.region, cur)
		neighborOff := cur + headerSize + curH.trueSize()
		if neighborOff >= len(ex.region) {
			break
		}
		nh := headerAt(ex.region, neighborOff)
		if nh.isUsed() {
			break
		}
		merged := curH.trueSize() + headerSize + nh.trueSize()
		setHeaderAt(ex.region, cur, encodeHeader(merged, false))
		ex.blockCount--
		if !coalesced {
			ex.freeList.pushFront(ex.region, cur)
			coalesced = true
		}
		ex.freeList.remove(ex.region, neighborOff)
	}
	if !coalesced {
		ex.freeList.pushFront(ex.region, off)
	}

	// Step 4: off's link fields (written by pushFront in step 3) still
	// hold real prev/next offsets at this point — saved has not been
	// copied back into p's payload yet. If the coalesced
	// block is still too small, TryAllocate must be called now, while
	// the free list is intact enough to walk: restoring saved into p
	// first would clobber off's links with caller data and crash or
	// misdirect the traversal (original_source/explicit.c calls
	// mymalloc before writing the payload, for the same reason).
	merged := headerAt(ex.region, off)
	if merged.trueSize() < size {
		newP, err := ex.TryAllocate(size)
		if err != nil {
			// Undo steps 2-3 from the caller's perspective: off goes
			// back to being a used, unlinked block. Any right neighbors
			// absorbed in step 3 stay part of it, so its true size may
			// now be larger than before. pushFront in step 3 already wrote
			// link-node bytes into the first minSize payload bytes, so
			// saved must be restored to recover the caller's data.
			ex.freeList.remove(ex.region, off)
			setHeaderAt(ex.region, off, merged.setUsed())
			copy(p[:minSize], saved)
			return nil, err
		}
		// off stays on the free list as a free block and its link
		// fields are left in place. The caller's first minSize bytes
		// come from saved, since pushFront overwrote them in p; the
		// rest are copied from p directly.
		copy(newP, saved)
		if len(p) > minSize {
			copy(newP[minSize:], p[minSize:])
		}
		ex.frees++
		return newP, nil
	}

	// Step 5: big enough in place. Unlink before deciding whether to
	// split, since the split path below overwrites off's header.
	ex.freeList.remove(ex.region, off)
	setHeaderAt(ex.region, off, merged.setUsed())
	h = headerAt(ex.region, off)

	// Step 6: in-place split.
	align := roundUp(size, ex.cfg.Alignment)
	remainder := h.trueSize() - align
	if remainder > minSize+headerSize {
		setHeaderAt(ex.region, off, encodeHeader(align, true))
		tailOff := off + headerSize + align
		tailSize := remainder - headerSize
		setHeaderAt(ex.region, tailOff, encodeHeader(tailSize, false))
		ex.blockCount++
		ex.freeList.pushFront(ex.region, tailOff)
	}

	// Step 7: restore saved bytes, return.
	copy(p[:minSize], saved)
	return ex.payloadView(off, size), nil
}

// UsableSize reports the true payload size of the block containing p.
func (ex *Explicit) UsableSize(p []byte) int {
	if len(p) == 0 || !ex.ready {
		return 0
	}
	off := ex.headerOffsetOf(p)
	return headerAt(ex.region, off).trueSize()
}

// Validate walks every block and the free list independently, per
// spec.md §4.8, confirming the tiling invariant and that the two
// views agree on the set of free blocks.
func (ex *Explicit) Validate() bool {
	return ex.TryValidate() == nil
}

// TryValidate is Validate's error-returning counterpart.
func (ex *Explicit) TryValidate() error {
	if !ex.ready {
		return ErrNotInitialized
	}
	var undersized error
	span, walkedFree := ex.tilingWalk(func(off int, h header) {
		if undersized == nil && !h.isUsed() && h.trueSize() < ex.minFreeBlockSize() {
			undersized = ex.report("undersized-free-block", ErrUndersizedFreeBlock, off,
				"free block smaller than one link node")
		}
	})
	if span != len(ex.region) {
		return ex.report("tiling", ErrTilingMismatch, 0,
			"sum of block spans does not equal region capacity")
	}
	if undersized != nil {
		return undersized
	}

	listLen := ex.freeList.len(ex.region)
	if listLen != walkedFree {
		return ex.report("free-list-length", ErrFreeListMismatch, 0,
			"free-list length disagrees with block walk")
	}

	if ex.freeList.head != nullOffset {
		if readLink(ex.region, int(ex.freeList.head)).prev != nullOffset {
			return ex.report("free-list-head-prev", ErrFreeListBackLink, int(ex.freeList.head),
				"head node's prev is not null")
		}
	}
	return nil
}

// Dump logs the current block table, flagging each free block with
// whether it is reachable from the free-list head.
func (ex *Explicit) Dump() {
	if !ex.ready {
		return
	}
	inList := map[int]bool{}
	ex.freeList.iterate(ex.region, func(off int) { inList[off] = true })
	ex.dumpBlocks("explicit", func(off int) bool { return inList[off] })
}

// Stats returns a snapshot of the allocator's bookkeeping.
func (ex *Explicit) Stats() Stats {
	var s Stats
	s.Allocs, s.Frees = ex.allocs, ex.frees
	s.Blocks = ex.blockCount
	ex.tilingWalk(func(_ int, h header) {
		if h.isUsed() {
			s.BytesUsed += h.trueSize()
		} else {
			s.FreeBlocks++
			s.BytesFree += h.trueSize()
		}
	})
	return s
}
