package heapcore

import "unsafe"

// header is the encoded value of a block's header word: bit 0 is the
// in-use flag, the remaining bits hold the true payload size (always a
// multiple of the configured alignment, so bit 0 never collides with
// it). Grounded on the bit-packing discipline cznic/memory applies to
// its page.log/used fields, generalized to a single packed word per
// spec.md §4.1.
type header uint64

const inUseBit header = 1

func encodeHeader(trueSize int, used bool) header {
	h := header(trueSize)
	if used {
		h |= inUseBit
	}
	return h
}

func (h header) trueSize() int { return int(h &^ inUseBit) }
func (h header) isUsed() bool  { return h&inUseBit != 0 }
func (h header) setUsed() header   { return h | inUseBit }
func (h header) clearUsed() header { return h &^ inUseBit }

// headerAt reads the header word stored at byte offset off in region.
// headerAt/setHeaderAt are the single trusted pair of functions that
// touch the region's raw bytes for header access (spec.md §9).
func headerAt(region []byte, off int) header {
	return header(*(*uint64)(unsafe.Pointer(&region[off])))
}

func setHeaderAt(region []byte, off int, h header) {
	*(*uint64)(unsafe.Pointer(&region[off])) = uint64(h)
}

// payloadOffset/headerOffset convert between a block's header offset
// and the offset of its first payload byte, a fixed H-byte
// displacement apart.
func payloadOffset(headerOff int) int { return headerOff + headerSize }
func headerOffset(payloadOff int) int { return payloadOff - headerSize }
