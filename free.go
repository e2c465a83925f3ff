package heapkit

import "github.com/joshuapare/heapkit/internal/format"

// Free returns a payload obtained from Alloc or Memalign to the heap.
// Nil is a no-op. Freeing the same payload twice, or a slice not handed
// out by this heap, panics: the heap's invariants cannot be trusted to
// support further operation after either.
func (h *Heap) Free(p []byte) {
	if p == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats.FreeCalls++

	s, off, hdr := h.recoverHeaderLocked(p)
	h.freeLocked(s, off, hdr)
}

// SizedFree is Free with a consistency check: the caller states the size
// it believes it allocated, and a region too small to have satisfied that
// request is reported. This catches use-after-resize bugs; it is not a
// correctness dependency of the free path.
func (h *Heap) SizedFree(p []byte, size int) {
	if p == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats.FreeCalls++

	s, off, hdr := h.recoverHeaderLocked(p)
	usable := hdr.Size - format.HeaderSize
	if size < 0 || uint32(size) > usable {
		if debugHeap {
			panic("heapkit: SizedFree size mismatch")
		}
		debugLogf("SizedFree: caller expected %d bytes, region has %d usable", size, usable)
	}
	h.freeLocked(s, off, hdr)
}

// recoverHeaderLocked resolves a payload back to its slab and region
// header, enforcing the double-free and ownership checks.
func (h *Heap) recoverHeaderLocked(p []byte) (*slab, uint32, format.Header) {
	s, payloadOff, ok := h.resolveLocked(p)
	if !ok {
		panic("heapkit: free of pointer not owned by this heap")
	}
	off := payloadOff - format.HeaderSize
	hdr := format.ReadHeader(s.mem, int(off))
	if hdr.Free() {
		panic("heapkit: double free")
	}
	if !hdr.Allocated() {
		panic("heapkit: free of corrupt or misaligned region")
	}
	return s, off, hdr
}

// freeLocked merges the allocated region at off with any free neighbors
// and either files the merged span into its bucket or, when the span
// covers the whole slab, retires the slab to the OS via the cache policy.
func (h *Heap) freeLocked(s *slab, off uint32, hdr format.Header) {
	size := hdr.Size
	left := hdr.Left
	h.stats.BytesFreed += int64(size)

	// Right neighbor by address arithmetic. The right sentinel is
	// allocated, so merging never crosses the slab edge.
	rOff := off + size
	rh := format.ReadHeader(s.mem, int(rOff))
	if rh.Free() {
		h.stats.CoalesceRight++
		h.unlinkAreaLocked(s, rOff, rh.Size)
		size += rh.Size
	}

	// Left neighbor via the header back-reference. The left sentinel is
	// allocated, so the leftmost real region never merges past it.
	if left != format.SentinelLeft {
		lh := format.ReadHeader(s.mem, int(left))
		if lh.Free() {
			h.stats.CoalesceLeft++
			h.unlinkAreaLocked(s, uint32(left), lh.Size)
			size += lh.Size
			off = uint32(left)
			left = lh.Left
		}
	}

	// A span from the left sentinel's edge to the right sentinel means
	// the whole slab is free. The heap's last slab is kept in the
	// buckets rather than retired, so a fully-drained heap still
	// satisfies its next allocation without an OS call.
	end := off + size
	if off == format.HeaderSize && int(end) == s.len()-format.HeaderSize && len(h.byAddr) > 1 {
		h.retireSlabLocked(s)
		return
	}

	format.PutLeft(s.mem, int(end), int32(off))
	h.createFreeAreaLocked(s, off, size, left)
}
