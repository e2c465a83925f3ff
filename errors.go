package heapkit

import "errors"

var (
	// ErrNoMemory indicates that the OS could not supply pages even after
	// shrinking the growth target down to the exact request.
	ErrNoMemory = errors.New("heapkit: out of memory")

	// ErrTooLarge indicates a request above the maximum allocation size.
	ErrTooLarge = errors.New("heapkit: allocation exceeds maximum size")

	// ErrInitialized indicates a second call to Init.
	ErrInitialized = errors.New("heapkit: default heap already initialized")
)
