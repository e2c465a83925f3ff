//go:build !unix

package mempage

// Alloc hands out GC-managed memory when anonymous mappings are not
// available. The allocator only needs zeroed, 8-byte-aligned storage;
// page alignment of the base address is not a correctness requirement.
func Alloc(n int) ([]byte, error) {
	return make([]byte, n), nil
}

// Free is a no-op in the fallback; the garbage collector reclaims the slab.
func Free(_ []byte) error {
	return nil
}
