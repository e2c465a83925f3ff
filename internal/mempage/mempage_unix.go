//go:build unix

package mempage

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Alloc obtains n bytes of zeroed, page-aligned memory from the OS via an
// anonymous private mapping. n must be a multiple of the page size.
func Alloc(n int) ([]byte, error) {
	data, err := unix.Mmap(-1, 0, n,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Free returns a mapping previously obtained from Alloc to the OS.
func Free(b []byte) error {
	if b == nil {
		return nil
	}
	err := unix.Munmap(b)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
