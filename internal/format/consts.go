package format

// Layout constants for heap region headers.
//
// Every region in a slab (free, allocated, or sentinel) starts with a
// fixed-size header. Free regions additionally carry a link overlay
// directly after the header; the overlay bytes are repurposed as payload
// once the region is allocated, so free-list bookkeeping costs nothing.

const (
	// HeaderSize is the size of a region header in bytes.
	// Layout: size uint32 | left int32 | state uint32 | reserved uint32.
	HeaderSize = 16

	// LinkSize is the size of the free-list link overlay (next + prev refs).
	LinkSize = 16

	// NodeSize is the minimum total size of a region that can sit on a
	// free list: header plus link overlay.
	NodeSize = HeaderSize + LinkSize

	// MinPayload is the smallest usable size any region can carry.
	// A region below this could never be freed back onto a list.
	MinPayload = NodeSize - HeaderSize

	// Alignment is the required alignment of region sizes and payloads.
	Alignment = 8

	// AlignmentMask is Alignment - 1, for mask-based rounding.
	AlignmentMask = Alignment - 1
)

// Header field offsets within a region.
const (
	SizeOffset     = 0
	LeftOffset     = 4
	StateOffset    = 8
	ReservedOffset = 12

	// NextOffset and PrevOffset locate the free-list link refs,
	// relative to the region start. Valid only while the region is free.
	NextOffset = HeaderSize
	PrevOffset = HeaderSize + 8
)

// Region states. Distinctive values rather than 0/1 so that stale or
// stomped headers are unlikely to masquerade as valid ones.
const (
	StateAllocated uint32 = 0xA110C8ED
	StateFree      uint32 = 0xF7EEF7EE
)

// SentinelLeft is the left-field value of the leftmost header in a slab,
// marking the slab boundary where coalescing must stop.
const SentinelLeft int32 = -1
