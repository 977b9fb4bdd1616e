package heapcore

import "unsafe"

// nullOffset marks the absence of a link; header offset 0 is always a
// valid block address (the region's base block), so -1 is used as the
// sentinel instead of 0, unlike a typical nil pointer.
const nullOffset = -1

// link is the (prev, next) pair stored in a free block's payload.
// Both fields are header offsets into the region, or nullOffset.
// Grounded on cznic/memory's node{prev, next *node} (memory.go:69-71);
// reimplemented over byte offsets rather than raw pointers per
// spec.md §9 (see DESIGN.md's open-question decision).
type link struct {
	prev, next int64
}

// readLink/writeLink are the single trusted pair of functions that
// touch a free block's link-node bytes, living at the block's payload
// offset (headerOff + H).
func readLink(region []byte, headerOff int) link {
	p := payloadOffset(headerOff)
	return link{
		prev: int64(*(*uint64)(unsafe.Pointer(&region[p]))),
		next: int64(*(*uint64)(unsafe.Pointer(&region[p+8]))),
	}
}

func writeLink(region []byte, headerOff int, l link) {
	p := payloadOffset(headerOff)
	*(*uint64)(unsafe.Pointer(&region[p])) = uint64(l.prev)
	*(*uint64)(unsafe.Pointer(&region[p+8])) = uint64(l.next)
}

// freeList is the LIFO doubly-linked free list threaded through free
// block payloads. head is the header offset of the most recently
// freed block, or nullOffset.
type freeList struct {
	head int64
}

// pushFront links block onto the head of the list. Grounded on
// cznic/memory's Free (memory.go:200-206).
func (fl *freeList) pushFront(region []byte, blockOff int) {
	old := fl.head
	writeLink(region, blockOff, link{prev: nullOffset, next: old})
	if old != nullOffset {
		l := readLink(region, int(old))
		l.prev = int64(blockOff)
		writeLink(region, int(old), l)
	}
	fl.head = int64(blockOff)
}

// remove unlinks blockOff from the list, handling the four endpoint
// cases: only node, head, tail, middle. Grounded on cznic/memory's
// coalesce-time unlink loop (memory.go:212-226).
func (fl *freeList) remove(region []byte, blockOff int) {
	l := readLink(region, blockOff)
	switch {
	case l.prev == nullOffset && l.next == nullOffset:
		fl.head = nullOffset
	case l.prev == nullOffset:
		fl.head = l.next
		nl := readLink(region, int(l.next))
		nl.prev = nullOffset
		writeLink(region, int(l.next), nl)
	case l.next == nullOffset:
		pl := readLink(region, int(l.prev))
		pl.next = nullOffset
		writeLink(region, int(l.prev), pl)
	default:
		pl := readLink(region, int(l.prev))
		pl.next = l.next
		writeLink(region, int(l.prev), pl)
		nl := readLink(region, int(l.next))
		nl.prev = l.prev
		writeLink(region, int(l.next), nl)
	}
}

// iterate calls visit(headerOffset) for every free block reachable
// from head, newest-first.
func (fl *freeList) iterate(region []byte, visit func(off int)) {
	for off := fl.head; off != nullOffset; {
		visit(int(off))
		off = readLink(region, int(off)).next
	}
}

// len counts the blocks currently on the list. O(F); used only by
// Validate, not by the hot allocate/free paths.
func (fl *freeList) len(region []byte) int {
	n := 0
	fl.iterate(region, func(int) { n++ })
	return n
}
