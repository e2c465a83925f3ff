package format

// Header is the decoded form of a region header.
//
// Size is the total region size in bytes, header included. The two
// sentinels bounding a slab are special: the left sentinel has
// Size == HeaderSize and Left == SentinelLeft, and the right sentinel has
// Size == 0, which terminates rightward neighbor walks.
//
// Left is the slab-relative offset of the immediately preceding region's
// header. It is a spatial back-reference, not an owning pointer; the
// rightward direction is implied by address arithmetic (off + Size).
type Header struct {
	Size  uint32
	Left  int32
	State uint32
}

// Allocated reports whether the header describes an allocated region.
func (h Header) Allocated() bool { return h.State == StateAllocated }

// Free reports whether the header describes a region on a free list.
func (h Header) Free() bool { return h.State == StateFree }

// ReadHeader decodes the region header at off.
func ReadHeader(b []byte, off int) Header {
	return Header{
		Size:  ReadU32(b, off+SizeOffset),
		Left:  ReadI32(b, off+LeftOffset),
		State: ReadU32(b, off+StateOffset),
	}
}

// PutHeader encodes h at off, zeroing the reserved word.
func PutHeader(b []byte, off int, h Header) {
	PutU32(b, off+SizeOffset, h.Size)
	PutI32(b, off+LeftOffset, h.Left)
	PutU32(b, off+StateOffset, h.State)
	PutU32(b, off+ReservedOffset, 0)
}

// PutSize rewrites only the size field of the header at off.
func PutSize(b []byte, off int, size uint32) {
	PutU32(b, off+SizeOffset, size)
}

// PutLeft rewrites only the left back-reference of the header at off.
// Used to fix up a region's right neighbor after a split or merge.
func PutLeft(b []byte, off int, left int32) {
	PutI32(b, off+LeftOffset, left)
}

// PutState rewrites only the state tag of the header at off.
func PutState(b []byte, off int, state uint32) {
	PutU32(b, off+StateOffset, state)
}

// ReadNext reads the free-list next ref of the free region at off.
func ReadNext(b []byte, off int) uint64 {
	return ReadU64(b, off+NextOffset)
}

// ReadPrev reads the free-list prev ref of the free region at off.
func ReadPrev(b []byte, off int) uint64 {
	return ReadU64(b, off+PrevOffset)
}

// PutNext writes the free-list next ref of the free region at off.
func PutNext(b []byte, off int, ref uint64) {
	PutU64(b, off+NextOffset, ref)
}

// PutPrev writes the free-list prev ref of the free region at off.
func PutPrev(b []byte, off int, ref uint64) {
	PutU64(b, off+PrevOffset, ref)
}
