package heapcore

// Implicit is the first-fit allocator: every Allocate walks the full
// block table in address order and accepts the first free block large
// enough. It never threads a free list through payloads, so a freed
// block needs no link-node headroom beyond the header itself.
//
// Grounded on cznic/memory's Malloc/Free/Realloc control flow
// (memory.go:242-350), stripped of size-class bucketing (the teacher
// indexes by power-of-two "log" slot; this variant has none) and
// retargeted at a single caller-supplied region.
type Implicit struct {
	base
}

// Init installs region as the allocator's backing store. It may be
// called again to reset state. Returns false if region is too small
// to hold one header.
func (im *Implicit) Init(region []byte, opts ...Option) bool {
	return im.initRegion(region, headerSize, opts...)
}

// TryInit is Init's error-returning counterpart.
func (im *Implicit) TryInit(region []byte, opts ...Option) error {
	if !im.Init(region, opts...) {
		return ErrCapacityTooSmall
	}
	return nil
}

// Allocate returns a newly in-use payload slice of size bytes, or nil
// if size is invalid, exceeds MaxRequestSize, or no block fits.
func (im *Implicit) Allocate(size int) []byte {
	p, _ := im.TryAllocate(size)
	return p
}

// TryAllocate is Allocate's error-returning counterpart.
func (im *Implicit) TryAllocate(size int) ([]byte, error) {
	if !im.ready {
		return nil, ErrNotInitialized
	}
	if err := im.checkRequest(size); err != nil {
		return nil, err
	}
	need := roundUp(size, im.cfg.Alignment)

	offs := blockOffsets(im.region, im.blockCount)
	for i, off := range offs {
		h := headerAt(im.region, off)
		if h.isUsed() || h.trueSize() < need {
			continue
		}

		last := i == len(offs)-1
		if last {
			im.splitLastOnAllocate(off, need)
		}
		h = headerAt(im.region, off).setUsed()
		setHeaderAt(im.region, off, h)
		im.allocs++
		return im.payloadView(off, size), nil
	}
	return nil, ErrOutOfMemory
}

// splitLastOnAllocate shrinks the last block in the region to exactly
// need bytes and appends a trailing free header over the remainder,
// per spec.md §4.5's implicit-split rule (only the last block splits).
func (im *Implicit) splitLastOnAllocate(off, need int) {
	h := headerAt(im.region, off)
	remainder := h.trueSize() - need - headerSize
	if remainder < 0 {
		// Not enough room to carve a header for the remainder; take
		// the block whole instead of growing need past what exists.
		return
	}
	setHeaderAt(im.region, off, encodeHeader(need, false))
	tailOff := off + headerSize + need
	setHeaderAt(im.region, tailOff, encodeHeader(remainder, false))
	im.blockCount++
}

// Free marks p's block free. p must have come from Allocate/Reallocate
// on this allocator; nil is a silent no-op. The implicit variant does
// not coalesce: spec.md §4.6 says coalescing is an explicit-only
// concern.
func (im *Implicit) Free(p []byte) {
	_ = im.TryFree(p)
}

// TryFree is Free's error-returning counterpart.
func (im *Implicit) TryFree(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if !im.ready {
		return ErrNotInitialized
	}
	off := im.headerOffsetOf(p)
	h := headerAt(im.region, off).clearUsed()
	setHeaderAt(im.region, off, h)
	im.frees++
	return nil
}

// Reallocate resizes the block at p to size bytes. Per spec.md §4.7:
// nil p behaves as Allocate; size == 0 behaves as Free and returns
// nil; if the block already fits, p is returned unchanged; otherwise
// a new block is allocated, the overlap copied, and the old block
// freed.
func (im *Implicit) Reallocate(p []byte, size int) []byte {
	r, _ := im.TryReallocate(p, size)
	return r
}

// TryReallocate is Reallocate's error-returning counterpart. On
// allocate failure the old block is left untouched and the original
// error is returned, per spec.md §4.7 and §7.
func (im *Implicit) TryReallocate(p []byte, size int) ([]byte, error) {
	if len(p) == 0 {
		return im.TryAllocate(size)
	}
	if size == 0 {
		return nil, im.TryFree(p)
	}
	if !im.ready {
		return nil, ErrNotInitialized
	}

	off := im.headerOffsetOf(p)
	h := headerAt(im.region, off)
	if h.trueSize() >= size {
		return p[:size], nil
	}

	newP, err := im.TryAllocate(size)
	if err != nil {
		return nil, err
	}
	copy(newP, p[:h.trueSize()])
	if err := im.TryFree(p); err != nil {
		return nil, err
	}
	return newP, nil
}

// UsableSize reports the true payload size of the block containing p.
func (im *Implicit) UsableSize(p []byte) int {
	if len(p) == 0 || !im.ready {
		return 0
	}
	off := im.headerOffsetOf(p)
	return headerAt(im.region, off).trueSize()
}

// Validate walks every block and confirms the tiling invariant
// (spec.md §8 invariant 1). On mismatch it reports through the
// configured logger, invokes BreakHook, and returns false.
func (im *Implicit) Validate() bool {
	return im.TryValidate() == nil
}

// TryValidate is Validate's error-returning counterpart.
func (im *Implicit) TryValidate() error {
	if !im.ready {
		return ErrNotInitialized
	}
	span, _ := im.tilingWalk(nil)
	if span != len(im.region) {
		return im.report("tiling", ErrTilingMismatch, 0,
			"sum of block spans does not equal region capacity")
	}
	return nil
}

// Dump logs the current block table through the configured logger.
func (im *Implicit) Dump() {
	im.dumpBlocks("implicit", nil)
}

// Stats returns a snapshot of the allocator's bookkeeping.
func (im *Implicit) Stats() Stats {
	var s Stats
	s.Allocs, s.Frees = im.allocs, im.frees
	s.Blocks = im.blockCount
	im.tilingWalk(func(_ int, h header) {
		if h.isUsed() {
			s.BytesUsed += h.trueSize()
		} else {
			s.FreeBlocks++
			s.BytesFree += h.trueSize()
		}
	})
	return s
}
