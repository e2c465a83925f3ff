package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderRoundTrip(t *testing.T) {
	b := make([]byte, 64)
	h := Header{Size: 96, Left: 16, State: StateFree}
	PutHeader(b, 8, h)

	got := ReadHeader(b, 8)
	assert.Equal(t, h, got)
	assert.True(t, got.Free())
	assert.False(t, got.Allocated())
	assert.Zero(t, ReadU32(b, 8+ReservedOffset), "reserved word must be zeroed")
}

func TestHeaderFieldRewrites(t *testing.T) {
	b := make([]byte, 32)
	PutHeader(b, 0, Header{Size: 48, Left: SentinelLeft, State: StateAllocated})

	PutSize(b, 0, 80)
	PutLeft(b, 0, 112)
	PutState(b, 0, StateFree)

	got := ReadHeader(b, 0)
	assert.Equal(t, Header{Size: 80, Left: 112, State: StateFree}, got)
}

func TestFreeLinkOverlay(t *testing.T) {
	b := make([]byte, NodeSize)
	PutHeader(b, 0, Header{Size: NodeSize, Left: 16, State: StateFree})
	PutNext(b, 0, 0x1_0000_0040)
	PutPrev(b, 0, 0x2_0000_0080)

	assert.Equal(t, uint64(0x1_0000_0040), ReadNext(b, 0))
	assert.Equal(t, uint64(0x2_0000_0080), ReadPrev(b, 0))
	// The overlay must not clobber the header in front of it.
	assert.Equal(t, Header{Size: NodeSize, Left: 16, State: StateFree}, ReadHeader(b, 0))
}

func TestStateTagsDistinct(t *testing.T) {
	assert.NotEqual(t, StateAllocated, StateFree)
	assert.False(t, Header{}.Allocated(), "a zeroed header must not look allocated")
	assert.False(t, Header{}.Free(), "a zeroed header must not look free")
}
