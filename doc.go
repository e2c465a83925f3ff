// Package heapkit implements a compact bucketed heap allocator over
// anonymous OS memory.
//
// # Overview
//
// This package implements general-purpose dynamic allocation using a
// segregated free-list design: an array of size-class buckets, each holding
// a doubly-linked list of free regions, with a bitmap for O(1) "smallest
// adequate bucket" queries. Regions are split in place on allocation and
// eagerly coalesced with free neighbors on free, and fully-free slabs are
// returned to the OS through a one-slot cache that dampens mmap churn.
//
// # Heap Interface
//
// The core type is Heap, which supports:
//
//   - Alloc(size): Allocate size usable bytes, returned as a payload slice
//   - Free(p): Return a payload previously obtained from Alloc or Memalign
//   - SizedFree(p, size): As Free, with a size consistency check
//   - Memalign(alignment, size): Allocate with a stronger address alignment
//   - Info(): Snapshot of used, free, and cached byte counts
//   - Dump(w, panicMode): Diagnostic dump of every bucket's contents
//
// A process-wide default heap is available through the package-level
// functions of the same names after a single call to Init.
//
// # Size Buckets
//
// The allocator maintains 128 buckets. The first 15 are linear, one per
// multiple of 8 bytes from 8 to 120. Above that, buckets are
// logarithmically spaced with 8 sub-buckets per power-of-two octave, up to
// the maximum allocation size of 2 MiB:
//
//	Bucket   0 -  14:   8, 16, 24 ... 120 bytes
//	Bucket  15 -  22: 128, 144 ... 240 bytes
//	Bucket  23 -  30: 256, 288 ... 480 bytes
//	...
//	Bucket 127:       2 MiB
//
// Freed regions are filed under the freeing variant of the bucket index,
// which never overstates a region's size, so the head of any bucket at or
// above the allocating index is guaranteed to fit. Requests above 2 MiB
// return nil.
//
// # Slabs and Growth
//
// Memory is obtained from the OS in page-aligned slabs (anonymous private
// mappings). Each slab is bounded by a left sentinel header and a
// zero-size right sentinel header, which stop coalescing at slab edges and
// make "entire slab is free" detectable in O(1). When no bucket can
// satisfy a request the heap grows by max(heapSize/8, GrowQuantum,
// request), halving the target on failure down to the exact request before
// giving up.
//
// # Region Headers
//
// Every region starts with a 16-byte header carrying its total size, a
// back-reference to its left neighbor, and an explicit free/allocated tag.
// Free regions overlay their first 16 payload bytes with the free-list
// links, so list membership costs no memory beyond the region itself.
//
// # Failure Model
//
// Alloc and Memalign return nil on zero size, oversize requests, and OS
// memory exhaustion; they never panic on those paths. Freeing a region
// that is already free panics: the heap's invariants cannot be trusted
// after a double free, so continuing risks silent corruption.
//
// # Thread Safety
//
// All Heap methods are safe for concurrent use. A single heap-wide mutex
// guards the buckets, counters, and slab cache; the bucket index math is
// pure and runs outside the lock.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/internal/format: header layout and encoding
//   - github.com/joshuapare/heapkit/internal/mempage: OS page source
package heapkit
