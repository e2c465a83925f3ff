package heapkit

import "github.com/joshuapare/heapkit/internal/format"

// Alloc allocates size usable bytes and returns them as a payload slice
// backed by slab memory, with len equal to the request. The capacity
// exposes the full region when the size was rounded up or a remainder
// was absorbed.
//
// Returns nil on zero size, on requests above MaxAlloc, and on OS memory
// exhaustion after the shrinking-growth retry loop; never panics on
// those paths.
func (h *Heap) Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}
	if size > MaxAlloc {
		debugLogf("alloc(%d): %v (max %d)", size, ErrTooLarge, MaxAlloc)
		return nil
	}
	bucket, rounded, ok := bucketForAlloc(uint32(size))
	if !ok {
		return nil
	}
	want := rounded + format.HeaderSize

	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats.AllocCalls++

	s, off, hdr, found := h.takeFirstFitLocked(bucket)
	if !found {
		if err := h.growForLocked(uint64(want)); err != nil {
			debugLogf("alloc(%d): %v", size, err)
			return nil
		}
		s, off, hdr, found = h.takeFirstFitLocked(bucket)
		if !found {
			// Growth succeeded but produced nothing adequate; the
			// grow target invariant makes this unreachable.
			debugLogf("alloc(%d): no fit after grow", size)
			return nil
		}
		h.stats.AllocSlowPath++
	} else {
		h.stats.AllocFastPath++
	}

	total := h.carveLocked(s, off, hdr, want, rounded)
	h.stats.BytesAllocated += int64(total)
	payload := off + format.HeaderSize
	return s.mem[payload : payload+uint32(size) : off+total]
}

// carveLocked turns the free region [off, off+hdr.Size) into an
// allocation of want header-inclusive bytes. The remainder is split off
// as a new free area when it can host a free-list node and clears the
// anti-fragmentation threshold; otherwise the whole region is consumed.
// Returns the final total size of the allocated region.
func (h *Heap) carveLocked(s *slab, off uint32, hdr format.Header, want, rounded uint32) uint32 {
	total := hdr.Size
	rest := total - want

	if rest >= format.NodeSize && rest >= rounded>>h.cfg.SplitShift {
		h.stats.SplitCount++
		tail := off + want
		h.createFreeAreaLocked(s, tail, rest, int32(off))
		format.PutLeft(s.mem, int(tail+rest), int32(tail))
		total = want
		format.PutSize(s.mem, int(off), total)
	}

	format.PutState(s.mem, int(off), format.StateAllocated)
	return total
}
