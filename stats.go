package heapcore

// Stats is a read-only snapshot of an allocator's bookkeeping,
// grounded on cznic/memory's private allocs/bytes/mmaps counters
// (memory.go:82-89), promoted to a public accessor instead of being
// visible only via %+v in tests.
type Stats struct {
	Blocks     int // total blocks currently tiling the region
	FreeBlocks int // blocks with the in-use flag clear
	BytesUsed  int // sum of true payload size over in-use blocks
	BytesFree  int // sum of true payload size over free blocks
	Allocs     int // cumulative successful Allocate/Reallocate-to-new calls
	Frees      int // cumulative successful Free calls
}
