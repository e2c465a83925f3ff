package heapkit

import (
	"math/bits"

	"github.com/joshuapare/heapkit/internal/format"
)

// Bucket index math. Pure functions, no heap state, no locking.
//
// The first 15 buckets are linear: bucket b holds regions of exactly
// (b+1)*8 usable bytes, up to 120. Above 120 the buckets are
// logarithmically spaced, 8 per power-of-two octave: within octave
// [2^row, 2^(row+1)) the sub-bucket boundaries are (8+col)<<(row-3) for
// col 0..7. Octaves run from row 7 (128 bytes) to row 21 (2 MiB).

const (
	// virtualBits bounds the largest representable allocation:
	// MaxAlloc = 1 << virtualBits.
	virtualBits = 21

	// MaxAlloc is the largest usable size Alloc will accept, in bytes.
	MaxAlloc = 1 << virtualBits

	// numBuckets covers the 15 linear buckets plus 8 sub-buckets for
	// each octave from 128 bytes through MaxAlloc.
	numBuckets = 16 + (virtualBits-7)*8

	bitmapWords = (numBuckets + 63) / 64

	// maxGrowBytes caps a single growth request so the resulting free
	// area never rounds down past the last representable bucket.
	maxGrowBytes = MaxAlloc
)

// bucketForFree returns the bucket for filing a free region of exactly
// usable bytes. It rounds down: the chosen bucket's nominal minimum size
// is never larger than usable, so every region found in a bucket is
// guaranteed at least the bucket's minimum.
func bucketForFree(usable uint32) int {
	if usable < format.MinPayload {
		usable = format.MinPayload
	}
	if usable > MaxAlloc {
		// Oversized free areas (page rounding on large growths) are
		// clamped into the last bucket, which only understates them.
		return numBuckets - 1
	}
	if usable < 128 {
		return int(usable/8) - 1
	}
	row := bits.Len32(usable) - 1
	col := int(usable>>(uint(row)-3)) & 7
	return 15 + (row-7)*8 + col
}

// bucketForAlloc returns the bucket to start searching for a request of
// usable bytes, along with the request rounded up to that bucket's
// nominal minimum size. Sizes exactly on a bucket boundary map to that
// bucket, not the next one up. Returns ok=false above MaxAlloc.
func bucketForAlloc(usable uint32) (bucket int, rounded uint32, ok bool) {
	if usable == 0 || usable > MaxAlloc {
		return 0, 0, false
	}
	if usable < format.MinPayload {
		usable = format.MinPayload
	}
	if usable <= 120 {
		rounded = format.Align8U32(usable)
		return int(rounded/8) - 1, rounded, true
	}
	// Rounding down for usable-1 then stepping one bucket up yields the
	// smallest bucket whose minimum is >= usable, and keeps exact
	// boundary sizes in their own bucket.
	bucket = bucketForFree(usable-1) + 1
	return bucket, bucketMinSize(bucket), true
}

// bucketMinSize returns the nominal minimum usable size of a bucket:
// every region filed in the bucket has at least this many usable bytes.
func bucketMinSize(bucket int) uint32 {
	if bucket < 15 {
		return uint32(bucket+1) * 8
	}
	n := bucket - 15
	row := uint(n/8 + 7)
	col := uint32(n % 8)
	return (8 + col) << (row - 3)
}

// findFirstFit returns the lowest-indexed non-empty bucket at or above
// start, using a masked scan of the bucket bitmap. Must be called with
// the heap lock held. Returns ok=false when nothing at or above start is
// populated; that is not a "heap is empty" signal, only that growth is
// needed for this request.
func (h *Heap) findFirstFit(start int) (int, bool) {
	word := start >> 6
	mask := ^uint64(0) << uint(start&63)
	for w := word; w < bitmapWords; w++ {
		m := h.bitmap[w]
		if w == word {
			m &= mask
		}
		if m != 0 {
			return w<<6 + bits.TrailingZeros64(m), true
		}
	}
	return 0, false
}
