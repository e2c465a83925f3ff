package heapkit

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

// testConfig keeps slabs small so growth, caching, and OS-return paths
// trigger with modest allocation counts.
var testConfig = Config{
	Name:        "test",
	GrowQuantum: 4096,
	SplitShift:  6,
}

// newTestHeap creates a heap with the small test config and registers
// cleanup that unmaps its slabs.
func newTestHeap(t testing.TB) *Heap {
	t.Helper()
	h, err := New(&testConfig)
	require.NoError(t, err, "New should succeed")
	t.Cleanup(func() { _ = h.Close() })
	return h
}

// payloadAddr returns the numeric address of a payload's first byte.
func payloadAddr(p []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(p)))
}

// checkInvariants walks every slab header chain and every bucket list and
// verifies the structural invariants the allocator maintains:
//
//   - each slab starts with a left sentinel and ends with a zero-size
//     right sentinel
//   - every header's left back-reference names the preceding region
//   - no two adjacent regions are both free (eager coalescing)
//   - the free-byte counter equals the sum of all filed free regions
//   - bucket lists and the bitmap agree, and every filed region meets
//     its bucket's nominal minimum size
func checkInvariants(t testing.TB, h *Heap) {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()

	var walkedFree uint64
	walkedCount := 0
	for _, s := range h.byAddr {
		hdr := format.ReadHeader(s.mem, 0)
		require.Equal(t, uint32(format.HeaderSize), hdr.Size, "left sentinel size")
		require.Equal(t, format.SentinelLeft, hdr.Left, "left sentinel back-reference")
		require.True(t, hdr.Allocated(), "left sentinel must be tagged allocated")

		left := int32(0)
		off := format.HeaderSize
		prevFree := false
		for {
			hdr := format.ReadHeader(s.mem, off)
			if hdr.Size == 0 {
				require.Equal(t, s.len()-format.HeaderSize, off, "right sentinel position")
				require.True(t, hdr.Allocated(), "right sentinel must be tagged allocated")
				require.Equal(t, left, hdr.Left, "right sentinel back-reference")
				break
			}
			require.Equal(t, left, hdr.Left, "left back-reference at offset %d", off)
			require.True(t, hdr.Allocated() || hdr.Free(), "valid state tag at offset %d", off)
			if hdr.Free() {
				require.False(t, prevFree, "adjacent free regions at offset %d must have coalesced", off)
				walkedFree += uint64(hdr.Size)
				walkedCount++
			}
			prevFree = hdr.Free()
			left = int32(off)
			off += int(hdr.Size)
			require.LessOrEqual(t, off, s.len()-format.HeaderSize, "region chain overruns slab")
		}
	}
	require.Equal(t, h.freeBytes, walkedFree, "free-byte counter must match walked free regions")

	var listedFree uint64
	listedCount := 0
	for b := 0; b < numBuckets; b++ {
		r := h.buckets[b]
		bit := h.bitmap[b>>6]&(1<<uint(b&63)) != 0
		require.Equal(t, r != refNil, bit, "bitmap bit %d must mirror list emptiness", b)
		prev := refNil
		for r != refNil {
			s := h.slabs[r.slabID()]
			require.NotNil(t, s, "bucket %d entry refers to a live slab", b)
			hdr := format.ReadHeader(s.mem, int(r.off()))
			require.True(t, hdr.Free(), "bucket %d entry must be tagged free", b)
			require.GreaterOrEqual(t, hdr.Size-format.HeaderSize, bucketMinSize(b),
				"bucket %d entry below the bucket's nominal minimum", b)
			require.Equal(t, prev, ref(format.ReadPrev(s.mem, int(r.off()))), "prev link in bucket %d", b)
			listedFree += uint64(hdr.Size)
			listedCount++
			prev = r
			r = ref(format.ReadNext(s.mem, int(r.off())))
		}
	}
	require.Equal(t, walkedFree, listedFree, "bucket lists must contain exactly the walked free bytes")
	require.Equal(t, walkedCount, listedCount, "bucket lists must contain exactly the walked free regions")
}

// freeRegionCount counts regions currently filed in buckets.
func freeRegionCount(h *Heap) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for b := 0; b < numBuckets; b++ {
		for r := h.buckets[b]; r != refNil; {
			s := h.slabs[r.slabID()]
			n++
			r = ref(format.ReadNext(s.mem, int(r.off())))
		}
	}
	return n
}
