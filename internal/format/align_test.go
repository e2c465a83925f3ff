package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlign8(t *testing.T) {
	cases := map[int]int{0: 0, 1: 8, 7: 8, 8: 8, 9: 16, 100: 104}
	for in, want := range cases {
		assert.Equal(t, want, Align8(in), "Align8(%d)", in)
		assert.Equal(t, uint32(want), Align8U32(uint32(in)), "Align8U32(%d)", in)
	}
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, 4096, AlignUp(1, 4096))
	assert.Equal(t, 4096, AlignUp(4096, 4096))
	assert.Equal(t, 8192, AlignUp(4097, 4096))
	assert.Equal(t, 0, AlignUp(0, 4096))
}
