package heapkit

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/internal/format"
)

// Dump writes a human-readable description of every bucket's contents and
// the heap's byte accounting to w.
//
// panicMode skips lock acquisition. That is only safe when all other
// execution has already been halted, e.g. from a fatal-error handler that
// may itself hold the heap lock; in normal operation pass false.
func (h *Heap) Dump(w io.Writer, panicMode bool) {
	if !panicMode {
		h.mu.Lock()
		defer h.mu.Unlock()
	}

	p := message.NewPrinter(language.English)
	info := h.infoLocked()
	p.Fprintf(w, "heap %q: %d slabs (%d bytes), %d used, %d free, %d cached\n",
		h.cfg.Name, len(h.byAddr), h.size, info.UsedBytes, info.FreeBytes, info.CachedBytes)

	for b := 0; b < numBuckets; b++ {
		r := h.buckets[b]
		if r == refNil {
			continue
		}
		p.Fprintf(w, "  bucket %3d (min %d):", b, bucketMinSize(b))
		count := 0
		for r != refNil {
			s := h.slabs[r.slabID()]
			if s == nil {
				p.Fprintf(w, " <dangling %#x>", uint64(r))
				break
			}
			size := format.ReadU32(s.mem, int(r.off())+format.SizeOffset)
			p.Fprintf(w, " %d@%d/%d", size, r.slabID(), r.off())
			r = ref(format.ReadNext(s.mem, int(r.off())))
			count++
			if count > 1<<20 {
				p.Fprintf(w, " <list cycle?>")
				break
			}
		}
		p.Fprintf(w, "\n")
	}

	st := h.stats
	p.Fprintf(w, "  allocs %d (%d fast, %d slow), frees %d, splits %d, merges %d left / %d right\n",
		st.AllocCalls, st.AllocFastPath, st.AllocSlowPath, st.FreeCalls,
		st.SplitCount, st.CoalesceLeft, st.CoalesceRight)
	p.Fprintf(w, "  grows %d (%d bytes), slabs created %d released %d, cache hits %d stores %d\n",
		st.GrowCalls, st.GrowBytes, st.SlabsCreated, st.SlabsReleased,
		st.CacheHits, st.CacheStores)
}
