package heapkit

// Stats holds internal operation counters, for instrumentation and tests.
type Stats struct {
	AllocCalls    int // Total Alloc() calls
	AllocFastPath int // Allocations served without growing
	AllocSlowPath int // Allocations that required growth
	FreeCalls     int // Total Free()/SizedFree() calls
	MemalignCalls int // Total Memalign() calls that carved

	GrowCalls int   // Number of slab layouts performed
	GrowBytes int64 // Total bytes laid out via growth

	SplitCount    int // Regions split on allocation
	CoalesceRight int // Merges with a free right neighbor
	CoalesceLeft  int // Merges with a free left neighbor

	SlabsCreated  int // OS page allocations performed
	SlabsReleased int // OS page frees performed
	CacheHits     int // Growths served from the cached slab
	CacheStores   int // Fully-free slabs retained in the cache

	BytesAllocated int64 // Total bytes handed out (headers included)
	BytesFreed     int64 // Total bytes returned (headers included)
}
