package heapcore

// walkBlocks steps from header to header across region, starting at
// offset 0, for count blocks, invoking visit(headerOffset, h) for
// each. It is the single shared stepping function used by the
// implicit allocator's first-fit search, both variants' Validate, and
// Dump — grounded on cznic/memory's fixed-stride slot walk in
// Free/UnsafeFree (memory.go:212-226), generalized from a fixed slot
// stride to a per-block stride decoded from each header.
func walkBlocks(region []byte, count int, visit func(off int, h header)) {
	off := 0
	for i := 0; i < count; i++ {
		h := headerAt(region, off)
		visit(off, h)
		off += headerSize + h.trueSize()
	}
}

// blockOffsets returns the header offsets of every block in region, in
// address order. Used where callers need random access rather than a
// visitor callback (e.g. the implicit allocator locating the last
// block).
func blockOffsets(region []byte, count int) []int {
	offs := make([]int, 0, count)
	walkBlocks(region, count, func(off int, _ header) {
		offs = append(offs, off)
	})
	return offs
}
