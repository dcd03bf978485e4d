package alloc

import "fmt"

// Ptr is the arena offset of an allocated payload. Offsets are stable for the
// lifetime of the allocation; use Addr to obtain the absolute address.
//
// Offset 0 is never returned by Allocate because every payload is preceded
// by its header, so the zero Ptr doubles as the nil pointer.
type Ptr int

// Nil is the zero Ptr returned alongside errors.
const Nil Ptr = 0

// Block is a contiguous byte range of the arena, free or allocated.
type Block struct {
	Offset int // Arena offset of the first byte
	Size   int // Full span in bytes, including header and padding
}

// End returns the offset one past the last byte of the block.
func (b Block) End() int { return b.Offset + b.Size }

func (b Block) String() string {
	return fmt.Sprintf("[%d,%d)", b.Offset, b.End())
}

// Allocator is the public contract of an explicit-free arena allocator.
//
// Implementations:
//   - FreeListAllocator: address-ordered free list with first-fit or best-fit placement
type Allocator interface {
	// Allocate returns a payload of at least size bytes whose address is a
	// multiple of alignment. alignment must be a power of two.
	Allocate(size, alignment int) (Ptr, []byte, error)

	// Free returns a payload obtained from Allocate on the same allocator.
	Free(p Ptr) error

	// Reset discards every outstanding allocation.
	Reset() error

	// Close tears the allocator down, releasing an owned arena.
	Close() error
}
