package heapkit

import "github.com/joshuapare/heapkit/internal/format"

// Memalign allocates size usable bytes whose first byte sits on an
// alignment-byte boundary. alignment must be a power of two; alignments
// of 8 or less are already satisfied by Alloc and delegate to it.
//
// The implementation over-allocates by alignment plus a header and one
// free-list node,
// carves the aligned region out of the middle, and immediately frees the
// leading slack so it re-enters the buckets instead of being wasted.
// Returns nil on zero size, oversize requests, non-power-of-two
// alignment, and OS memory exhaustion.
func (h *Heap) Memalign(alignment, size int) []byte {
	if size <= 0 || alignment <= 0 || alignment&(alignment-1) != 0 {
		return nil
	}
	if alignment <= format.Alignment {
		return h.Alloc(size)
	}
	if size > MaxAlloc-alignment-format.NodeSize-format.HeaderSize {
		return nil
	}

	p := h.Alloc(size + alignment + format.NodeSize + format.HeaderSize)
	if p == nil {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats.MemalignCalls++

	s, payloadOff, ok := h.resolveLocked(p)
	if !ok {
		panic("heapkit: lost track of own allocation")
	}
	origOff := payloadOff - format.HeaderSize
	hdr := format.ReadHeader(s.mem, int(origOff))

	// Skip a header plus one node size before rounding up, so the
	// leading slack is always big enough to become a free region of its
	// own once its header is carved off.
	addr := s.base + uintptr(payloadOff)
	mask := uintptr(alignment - 1)
	aligned := (addr + format.HeaderSize + format.NodeSize + mask) &^ mask
	alignedOff := uint32(aligned - s.base)

	newOff := alignedOff - format.HeaderSize
	lead := newOff - origOff
	newSize := hdr.Size - lead

	format.PutHeader(s.mem, int(newOff), format.Header{
		Size:  newSize,
		Left:  int32(origOff),
		State: format.StateAllocated,
	})
	format.PutLeft(s.mem, int(newOff+newSize), int32(newOff))

	// Shrink the original allocation down to the leading slack and free
	// it back into the buckets.
	format.PutSize(s.mem, int(origOff), lead)
	h.freeLocked(s, origOff, format.Header{
		Size:  lead,
		Left:  hdr.Left,
		State: format.StateAllocated,
	})

	// TODO: Free the part after the aligned allocation.
	return s.mem[alignedOff : alignedOff+uint32(size) : newOff+newSize]
}
