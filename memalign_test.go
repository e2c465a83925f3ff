package heapkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemalignRejectsBadArguments verifies the nil-return paths: zero
// size, non-power-of-two alignments, and requests whose padding would
// push past MaxAlloc.
func TestMemalignRejectsBadArguments(t *testing.T) {
	h := newTestHeap(t)
	pre := h.Info()

	assert.Nil(t, h.Memalign(64, 0), "zero size must return nil")
	assert.Nil(t, h.Memalign(64, -1), "negative size must return nil")
	assert.Nil(t, h.Memalign(0, 64), "zero alignment must return nil")
	assert.Nil(t, h.Memalign(48, 64), "non-power-of-two alignment must return nil")
	assert.Nil(t, h.Memalign(4096, MaxAlloc), "padded request past MaxAlloc must return nil")

	assert.Equal(t, pre, h.Info(), "failed requests must not change accounting")
	checkInvariants(t, h)
}

// TestMemalignSmallAlignmentDelegates verifies that alignments at or
// below the natural granularity are plain allocations.
func TestMemalignSmallAlignmentDelegates(t *testing.T) {
	h := newTestHeap(t)
	p := h.Memalign(8, 100)
	require.NotNil(t, p)
	assert.Zero(t, payloadAddr(p)%8)
	assert.Zero(t, h.Stats().MemalignCalls, "small alignments take the Alloc path")
	h.Free(p)
	checkInvariants(t, h)
}

// TestMemalignAlignments verifies the returned address for a spread of
// alignments, and that each payload frees cleanly afterwards.
func TestMemalignAlignments(t *testing.T) {
	h := newTestHeap(t)
	pre := h.Info()

	for _, alignment := range []int{16, 32, 64, 128, 256, 512, 1024} {
		p := h.Memalign(alignment, 100)
		require.NotNil(t, p, "alignment %d", alignment)
		assert.Len(t, p, 100)
		assert.Zerof(t, payloadAddr(p)%uintptr(alignment),
			"payload must sit on a %d-byte boundary", alignment)
		checkInvariants(t, h)
		h.Free(p)
	}

	assert.Equal(t, pre.FreeBytes, h.Info().FreeBytes,
		"every aligned region and its slack must return to the buckets")
	assert.Equal(t, 1, freeRegionCount(h))
	checkInvariants(t, h)
}

// TestMemalignLeadingSlackReusable verifies that the skipped bytes in
// front of the aligned region are filed back into the buckets rather
// than leaked: a free region must exist while the aligned payload is
// still live.
func TestMemalignLeadingSlackReusable(t *testing.T) {
	h := newTestHeap(t)

	// Pin the front of the slab so the aligned carve happens mid-span
	// and its leading slack cannot merge into anything.
	pin := h.Alloc(64)
	require.NotNil(t, pin)

	p := h.Memalign(256, 200)
	require.NotNil(t, p)
	assert.Zero(t, payloadAddr(p)%256)
	assert.GreaterOrEqual(t, freeRegionCount(h), 2,
		"leading slack must be filed as its own free region")
	checkInvariants(t, h)

	h.Free(p)
	h.Free(pin)
	assert.Equal(t, 1, freeRegionCount(h))
	checkInvariants(t, h)
}

// TestMemalignNeighborsIntact stamps the aligned payload and both
// neighbors with distinct bytes and verifies nothing overlaps.
func TestMemalignNeighborsIntact(t *testing.T) {
	h := newTestHeap(t)

	a := h.Alloc(100)
	p := h.Memalign(64, 100)
	b := h.Alloc(100)
	require.NotNil(t, a)
	require.NotNil(t, p)
	require.NotNil(t, b)

	for i := range a {
		a[i] = 0xAA
	}
	for i := range p {
		p[i] = 0xBB
	}
	for i := range b {
		b[i] = 0xCC
	}
	for i := range a {
		assert.Equal(t, byte(0xAA), a[i], "left neighbor byte %d", i)
	}
	for i := range p {
		assert.Equal(t, byte(0xBB), p[i], "aligned payload byte %d", i)
	}
	for i := range b {
		assert.Equal(t, byte(0xCC), b[i], "right neighbor byte %d", i)
	}

	h.Free(a)
	h.Free(p)
	h.Free(b)
	checkInvariants(t, h)
}
