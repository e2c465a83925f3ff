package heapkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDumpShowsBucketsAndTotals verifies the diagnostic dump names the
// heap, lists at least one populated bucket, and prints the counters.
func TestDumpShowsBucketsAndTotals(t *testing.T) {
	h := newTestHeap(t)
	p := h.Alloc(100)
	require.NotNil(t, p)

	var sb strings.Builder
	h.Dump(&sb, false)
	out := sb.String()

	assert.Contains(t, out, `heap "test":`)
	assert.Contains(t, out, "bucket", "the remainder region must show up in a bucket line")
	assert.Contains(t, out, "allocs 1 (1 fast, 0 slow)")
	assert.Contains(t, out, "splits 1")

	h.Free(p)
	checkInvariants(t, h)
}

// TestDumpPanicMode verifies the lockless variant produces the same
// report when nothing else is running.
func TestDumpPanicMode(t *testing.T) {
	h := newTestHeap(t)

	var locked, lockless strings.Builder
	h.Dump(&locked, false)
	h.Dump(&lockless, true)
	assert.Equal(t, locked.String(), lockless.String())
}
