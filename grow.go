package heapkit

import (
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/mempage"
)

// Growth and shrink-to-OS logic.
//
// A slab is laid out as:
//
//	[ left sentinel | free area ............ | right sentinel ]
//
// The left sentinel is an allocated header with Left == SentinelLeft; the
// right sentinel is an allocated header with Size == 0. Together they stop
// coalescing at slab edges and make a fully-free slab recognizable as one
// area spanning sentinel to sentinel.

// growLocked obtains a slab with at least minBytes of area space
// (header-inclusive), lays down the sentinels, and files the middle free
// area into its bucket. The cached slab is reused when large enough;
// a too-small cached slab is released first, since it is unlikely to
// satisfy the larger request either.
func (h *Heap) growLocked(minBytes uint64) error {
	osLen := format.AlignUp(int(minBytes)+2*format.HeaderSize, mempage.Size())

	var s *slab
	if c := h.cached; c != nil {
		h.cached = nil
		if c.len() >= osLen {
			h.stats.CacheHits++
			s = c
		} else {
			h.releaseSlabLocked(c)
		}
	}
	if s == nil {
		mem, err := mempage.Alloc(osLen)
		if err != nil {
			debugLogf("grow: page alloc of %d bytes failed: %v", osLen, err)
			return ErrNoMemory
		}
		s = &slab{mem: mem}
		h.stats.SlabsCreated++
	}

	h.addSlabLocked(s)
	n := s.len()

	format.PutHeader(s.mem, 0, format.Header{
		Size:  format.HeaderSize,
		Left:  format.SentinelLeft,
		State: format.StateAllocated,
	})
	areaOff := uint32(format.HeaderSize)
	areaSize := uint32(n - 2*format.HeaderSize)
	format.PutHeader(s.mem, n-format.HeaderSize, format.Header{
		Size:  0,
		Left:  int32(areaOff),
		State: format.StateAllocated,
	})
	h.createFreeAreaLocked(s, areaOff, areaSize, 0)

	h.size += uint64(n)
	h.stats.GrowCalls++
	h.stats.GrowBytes += int64(n)

	debugLogf("grow #%d: slab %d, %d bytes (%d usable), heap now %d bytes",
		h.stats.GrowCalls, s.id, n, areaSize-format.HeaderSize, h.size)
	return nil
}

// growForLocked grows the heap enough to satisfy an allocation that needs
// want header-inclusive bytes. The initial target is the maximum of an
// 8th of the current heap size, the configured growth quantum, and the
// request itself; on OS failure the target is halved down to the exact
// request before giving up.
func (h *Heap) growForLocked(want uint64) error {
	growby := h.size >> 3
	if q := uint64(h.cfg.GrowQuantum); growby < q {
		growby = q
	}
	if growby > maxGrowBytes {
		growby = maxGrowBytes
	}
	if growby < want {
		growby = want
	}
	for {
		if err := h.growLocked(growby); err == nil {
			return nil
		}
		if growby <= want {
			return ErrNoMemory
		}
		growby >>= 1
		if growby < want {
			growby = want
		}
	}
}

// retireSlabLocked takes a fully-free slab out of circulation: it is
// retained in the one-slot cache when the slot is empty, otherwise
// returned to the OS.
func (h *Heap) retireSlabLocked(s *slab) {
	h.dropSlabLocked(s)
	h.size -= uint64(s.len())
	if h.cached == nil {
		h.cached = s
		h.stats.CacheStores++
		return
	}
	h.releaseSlabLocked(s)
}

// releaseSlabLocked unmaps a slab that is no longer registered.
func (h *Heap) releaseSlabLocked(s *slab) {
	if err := mempage.Free(s.mem); err != nil {
		// Nothing to recover; the pages stay mapped but unused.
		debugLogf("release: page free of %d bytes failed: %v", s.len(), err)
	}
	h.stats.SlabsReleased++
}
