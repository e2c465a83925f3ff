package heapkit

import "io"

// The process-wide default heap. Init must be called exactly once before
// any of the package-level entry points; the default heap lives for the
// process lifetime and has no teardown. Code that needs multiple
// independent arenas, or a bounded lifetime, should use New directly.

var std *Heap

// Init creates the default heap with DefaultConfig and performs its
// initial growth. Returns ErrInitialized on a second call.
func Init() error {
	if std != nil {
		return ErrInitialized
	}
	h, err := New(nil)
	if err != nil {
		return err
	}
	std = h
	return nil
}

func mustStd() *Heap {
	if std == nil {
		panic("heapkit: Init not called")
	}
	return std
}

// Alloc allocates from the default heap. See Heap.Alloc.
func Alloc(size int) []byte { return mustStd().Alloc(size) }

// Free returns a payload to the default heap. See Heap.Free.
func Free(p []byte) { mustStd().Free(p) }

// SizedFree returns a payload to the default heap with a size
// consistency check. See Heap.SizedFree.
func SizedFree(p []byte, size int) { mustStd().SizedFree(p, size) }

// Memalign allocates aligned memory from the default heap.
// See Heap.Memalign.
func Memalign(alignment, size int) []byte { return mustStd().Memalign(alignment, size) }

// GetInfo returns the default heap's byte accounting. See Heap.Info.
func GetInfo() Info { return mustStd().Info() }

// DumpState dumps the default heap's buckets to w. See Heap.Dump.
func DumpState(w io.Writer, panicMode bool) { mustStd().Dump(w, panicMode) }
