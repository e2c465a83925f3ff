package heapkit

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"unsafe"

	"github.com/joshuapare/heapkit/internal/mempage"
)

// Debug flag - set to true to enable invariant panics on suspect state
// (compile-time toggle).
const debugHeap = false

// Runtime flag for allocation tracing - controlled by HEAPKIT_LOG_ALLOC env var.
var logHeap = os.Getenv("HEAPKIT_LOG_ALLOC") != ""

// ref identifies a region as (slab id, slab-relative offset). Free-list
// links are stored in this form inside the free regions' own bytes, since
// a list can span slabs while neighbor relations never do.
type ref uint64

const refNil = ^ref(0)

func makeRef(slabID, off uint32) ref {
	return ref(uint64(slabID)<<32 | uint64(off))
}

func (r ref) slabID() uint32 { return uint32(r >> 32) }
func (r ref) off() uint32    { return uint32(r) }

// slab is one OS allocation: a page-aligned anonymous mapping bounded by
// a left sentinel header and a zero-size right sentinel header.
type slab struct {
	id   uint32
	mem  []byte
	base uintptr
}

func (s *slab) len() int { return len(s.mem) }

// Heap is one allocation arena. All methods are safe for concurrent use;
// a single mutex guards the buckets, bitmap, counters, and slab cache.
type Heap struct {
	mu  sync.Mutex
	cfg Config

	// Free-area registry: one list head per bucket, plus a bitmap with
	// one bit per bucket, set iff that bucket's list is non-empty.
	buckets [numBuckets]ref
	bitmap  [bitmapWords]uint64

	// Slab registry. byAddr is kept sorted by base address for the
	// binary search that resolves payload pointers back to slabs.
	slabs  map[uint32]*slab
	byAddr []*slab
	nextID uint32

	// Byte accounting. size counts active slabs only; the cached slab
	// is reported separately by Info.
	size      uint64
	freeBytes uint64

	// At most one fully-free slab retained instead of unmapped, to
	// dampen map/unmap churn at growth boundaries.
	cached *slab

	stats Stats
}

// New creates a heap and performs its initial growth. A nil config uses
// DefaultConfig.
func New(config *Config) (*Heap, error) {
	cfg := DefaultConfig
	if config != nil {
		cfg = *config
	}
	cfg.normalize()

	h := &Heap{
		cfg:   cfg,
		slabs: make(map[uint32]*slab, 8),
	}
	for i := range h.buckets {
		h.buckets[i] = refNil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.growLocked(uint64(cfg.GrowQuantum)); err != nil {
		return nil, err
	}
	return h, nil
}

// Close unmaps every slab, including the cached one, and leaves the heap
// unusable. Payloads handed out earlier must not be touched afterwards.
func (h *Heap) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var firstErr error
	for _, s := range h.byAddr {
		if err := mempage.Free(s.mem); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if h.cached != nil {
		if err := mempage.Free(h.cached.mem); err != nil && firstErr == nil {
			firstErr = err
		}
		h.cached = nil
	}
	h.slabs = nil
	h.byAddr = nil
	for i := range h.buckets {
		h.buckets[i] = refNil
	}
	for i := range h.bitmap {
		h.bitmap[i] = 0
	}
	h.size = 0
	h.freeBytes = 0
	return firstErr
}

// Info is a diagnostic snapshot of the heap's byte accounting.
type Info struct {
	// UsedBytes is memory held by live allocations plus per-region
	// overhead (headers and sentinels).
	UsedBytes uint64

	// FreeBytes is the total size of all regions sitting in buckets.
	FreeBytes uint64

	// CachedBytes is the size of the retained fully-free slab, or 0.
	CachedBytes uint64
}

// Info returns the current byte accounting.
func (h *Heap) Info() Info {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.infoLocked()
}

func (h *Heap) infoLocked() Info {
	info := Info{
		UsedBytes: h.size - h.freeBytes,
		FreeBytes: h.freeBytes,
	}
	if h.cached != nil {
		info.CachedBytes = uint64(h.cached.len())
	}
	return info
}

// Stats returns a copy of the operation counters.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// addSlabLocked registers a slab in the id map and the sorted address index.
func (h *Heap) addSlabLocked(s *slab) {
	s.id = h.nextID
	h.nextID++
	s.base = uintptr(unsafe.Pointer(unsafe.SliceData(s.mem)))
	h.slabs[s.id] = s

	i := sort.Search(len(h.byAddr), func(i int) bool {
		return h.byAddr[i].base >= s.base
	})
	h.byAddr = append(h.byAddr, nil)
	copy(h.byAddr[i+1:], h.byAddr[i:])
	h.byAddr[i] = s
}

// dropSlabLocked removes a slab from both registries.
func (h *Heap) dropSlabLocked(s *slab) {
	delete(h.slabs, s.id)
	i := sort.Search(len(h.byAddr), func(i int) bool {
		return h.byAddr[i].base >= s.base
	})
	if i < len(h.byAddr) && h.byAddr[i] == s {
		h.byAddr = append(h.byAddr[:i], h.byAddr[i+1:]...)
	}
}

// resolveLocked maps a payload slice back to its slab and the slab-relative
// offset of the payload's first byte. O(log S) binary search on slab bases.
func (h *Heap) resolveLocked(p []byte) (*slab, uint32, bool) {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(p)))
	i := sort.Search(len(h.byAddr), func(i int) bool {
		return h.byAddr[i].base > addr
	})
	if i == 0 {
		return nil, 0, false
	}
	s := h.byAddr[i-1]
	if addr >= s.base+uintptr(s.len()) {
		return nil, 0, false
	}
	return s, uint32(addr - s.base), true
}

// slabFor returns the slab backing a ref. The ref must be live.
func (h *Heap) slabFor(r ref) *slab {
	s := h.slabs[r.slabID()]
	if s == nil {
		panic(fmt.Sprintf("heapkit: dangling region ref %#x", uint64(r)))
	}
	return s
}

func debugLogf(msg string, args ...any) {
	if logHeap {
		fmt.Fprintf(os.Stderr, "[HEAP] "+msg+"\n", args...)
	}
}
