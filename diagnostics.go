package heapcore

// dumpBlocks emits one zerolog debug event per block plus a summary
// event, the concrete shape of spec.md §4.8's "diagnostic side effect
// only". Grounded on cznic/memory's trace-gated Fprintf calls
// (memory.go:142-150 et al.), promoted to structured logging per
// SPEC_FULL §2.
func (b *base) dumpBlocks(variant string, freeOf func(off int) (inFreeList bool)) {
	log := *b.cfg.Logger
	used, free, freeBlocks := 0, 0, 0
	i := 0
	walkBlocks(b.region, b.blockCount, func(off int, h header) {
		ev := log.Debug().
			Str("variant", variant).
			Int("index", i).
			Int("offset", off).
			Int("size", h.trueSize()).
			Bool("used", h.isUsed())
		if freeOf != nil && !h.isUsed() {
			ev = ev.Bool("in_free_list", freeOf(off))
		}
		ev.Msg("block")
		if h.isUsed() {
			used += h.trueSize()
		} else {
			free += h.trueSize()
			freeBlocks++
		}
		i++
	})
	log.Debug().
		Str("variant", variant).
		Int("blocks", b.blockCount).
		Int("free_blocks", freeBlocks).
		Int("bytes_used", used).
		Int("bytes_free", free).
		Msg("dump summary")
}

func (b *base) report(invariant string, cause error, off int, msg string) error {
	b.cfg.Logger.Error().
		Str("invariant", invariant).
		Int("offset", off).
		Str("message", msg).
		Msg("heapcore: invariant violation")
	b.cfg.Break(ViolationReport{Invariant: invariant, Offset: off, Message: msg})
	return wrapViolation(cause, msg)
}
