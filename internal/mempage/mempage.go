// Package mempage provides platform-specific helpers for obtaining
// page-granular anonymous memory from the OS and returning it.
//
// This is the allocator's only collaborator: slabs come from Alloc and go
// back through Free, always in whole multiples of the OS page size.
package mempage

import "os"

// Size returns the OS page size.
func Size() int {
	return os.Getpagesize()
}
