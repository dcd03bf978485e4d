package alloc

import "errors"

var (
	// ErrOutOfMemory indicates that no free block can hold the request once
	// header and alignment padding are accounted for.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrInvalidArgument indicates a zero or negative size, a non power of two
	// alignment, or an unusable configuration.
	ErrInvalidArgument = errors.New("alloc: invalid argument")

	// ErrBadPointer indicates a double free or a pointer that did not come
	// from this allocator. Detection is best effort: pointers outside the
	// arena, headers describing impossible blocks, and blocks overlapping free
	// space are caught. Anything else is undefined behavior.
	ErrBadPointer = errors.New("alloc: double free or foreign pointer")

	// ErrClosed indicates use of an allocator after Close.
	ErrClosed = errors.New("alloc: allocator closed")

	// ErrCorrupt indicates the free list failed an invariant check.
	ErrCorrupt = errors.New("alloc: free list corrupt")
)
