package heapkit

import "github.com/joshuapare/heapkit/internal/format"

// Free-area registry operations. All of these require the heap lock.
//
// Each bucket holds a doubly-linked list of free regions; the links live
// in the first 16 payload bytes of the regions themselves, so list
// membership is free. The bitmap mirrors bucket emptiness for the masked
// scan in findFirstFit.

// createFreeAreaLocked writes a free header for [off, off+size) in s,
// pushes the region onto the head of its bucket, and credits the
// free-byte counter. left is the offset of the preceding region's header.
//
// The caller is responsible for the right neighbor's back-reference;
// createFreeAreaLocked does not touch it.
func (h *Heap) createFreeAreaLocked(s *slab, off, size uint32, left int32) {
	format.PutHeader(s.mem, int(off), format.Header{
		Size:  size,
		Left:  left,
		State: format.StateFree,
	})

	b := bucketForFree(size - format.HeaderSize)
	r := makeRef(s.id, off)
	head := h.buckets[b]

	format.PutNext(s.mem, int(off), uint64(head))
	format.PutPrev(s.mem, int(off), uint64(refNil))
	if head != refNil {
		hs := h.slabFor(head)
		format.PutPrev(hs.mem, int(head.off()), uint64(r))
	}
	h.buckets[b] = r
	h.bitmap[b>>6] |= 1 << uint(b&63)
	h.freeBytes += uint64(size)
}

// unlinkAreaLocked removes the free region at off from its bucket using
// its own prev/next links, clearing the bitmap bit if the bucket empties,
// and debits the free-byte counter. The region's header is left marked
// free; the caller overwrites it.
func (h *Heap) unlinkAreaLocked(s *slab, off, size uint32) {
	b := bucketForFree(size - format.HeaderSize)
	next := ref(format.ReadNext(s.mem, int(off)))
	prev := ref(format.ReadPrev(s.mem, int(off)))

	if prev != refNil {
		ps := h.slabFor(prev)
		format.PutNext(ps.mem, int(prev.off()), uint64(next))
	} else {
		h.buckets[b] = next
		if next == refNil {
			h.bitmap[b>>6] &^= 1 << uint(b&63)
		}
	}
	if next != refNil {
		ns := h.slabFor(next)
		format.PutPrev(ns.mem, int(next.off()), uint64(prev))
	}
	h.freeBytes -= uint64(size)
}

// takeFirstFitLocked pops the head of the lowest non-empty bucket at or
// above start. Every region in a bucket at or above the allocating index
// is guaranteed to fit, so the head is always adequate.
func (h *Heap) takeFirstFitLocked(start int) (*slab, uint32, format.Header, bool) {
	b, ok := h.findFirstFit(start)
	if !ok {
		return nil, 0, format.Header{}, false
	}
	r := h.buckets[b]
	s := h.slabFor(r)
	off := r.off()
	hdr := format.ReadHeader(s.mem, int(off))
	h.unlinkAreaLocked(s, off, hdr.Size)
	return s, off, hdr, true
}
