// Package alloc provides an explicit-free heap allocator over a single fixed
// arena, built around an address-ordered free list.
//
// # Overview
//
// FreeListAllocator tracks free memory as a doubly-linked list of
// variable-sized blocks threaded through the arena itself: each free block
// stores its own list node in its first 24 bytes, so the allocator needs no
// metadata storage outside the arena. The list is kept in ascending address
// order, which makes merging neighbors on free a local operation.
//
// # Allocator Interface
//
//   - Allocate(size, alignment): Return an aligned payload of at least size bytes
//   - Free(p): Return a payload to the free list, coalescing with neighbors
//   - Reset(): Discard all allocations, leaving one free block
//   - Close(): Tear down, releasing an owned arena
//
// # Placement Policies
//
// FirstFit takes the first block in address order that fits. BestFit scans
// the whole list and takes the block leaving the smallest remainder. The
// policy is fixed at construction:
//
//	fa, err := alloc.NewWithSize(1<<20, &alloc.Config{Policy: alloc.BestFit})
//	if err != nil {
//	    return err
//	}
//	defer fa.Close()
//
//	p, buf, err := fa.Allocate(256, 16)
//	if err != nil {
//	    return err // errors.Is(err, alloc.ErrOutOfMemory)
//	}
//	copy(buf, payload)
//
//	err = fa.Free(p)
//
// # Block Layout
//
// An allocated block is laid out as alignment padding, a 16-byte header, and
// the payload. The header records the payload span and the padding, so Free
// can recover the exact block span from the pointer alone:
//
//	start = p - 16 - padding
//	span  = size + padding + 16
//
// # Splitting and Coalescing
//
// When the chosen block exceeds the request by at least MinBlockSize bytes,
// the tail is split off and stays on the free list in the same slot.
// Otherwise the whole block is handed out and the header records the true
// oversize. Free inserts the block at its sorted position and merges it
// with a contiguous predecessor and successor, so at most one free block
// exists per maximal run of free bytes.
//
// # Errors
//
// ErrOutOfMemory and ErrInvalidArgument are returned by Allocate. Free
// reports ErrBadPointer for pointers it can prove were not live allocations
// (outside the arena, impossible headers, overlap with free space); other
// misuse such as freeing an interior pointer is undefined.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally or use one allocator per goroutine.
//
// # Debugging
//
// Config.Observer is called after every mutation. LogObserver adapts it to a
// slog.Logger, and setting FREELIST_LOG_ALLOC in the environment logs every
// event to stderr for allocators built without an observer.
package alloc
