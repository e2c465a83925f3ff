package format

// Alignment utilities. All region sizes and payload offsets are 8-byte
// aligned; slab sizes are aligned to the OS page size.

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// Align8U32 returns n aligned up to the next 8-byte boundary.
// uint32 version for use in allocator code to avoid conversion churn.
func Align8U32(n uint32) uint32 {
	return (n + AlignmentMask) & ^uint32(AlignmentMask)
}

// AlignUp returns n aligned up to the next multiple of align.
// align must be a power of two.
func AlignUp(n, align int) int {
	return (n + align - 1) & ^(align - 1)
}
