package alloc

import (
	"fmt"
	"iter"

	"github.com/joshuapare/freelist/arena"
	"github.com/joshuapare/freelist/internal/format"
)

// FreeListAllocator serves variable-sized requests from one fixed arena using
// an address-ordered free list threaded through the arena itself.
//
// Allocated block layout:
//
//	block start                  p - HeaderSize        p (returned)
//	|<-- alignment padding -->|<------ header ------>|<---- payload ---->|
//
// A free block instead starts with its list node (size, prev, next). Which
// view applies is decided only by free-list membership.
type FreeListAllocator struct {
	arena    *arena.Arena
	owned    bool // Close releases the arena
	closed   bool
	list     freeList
	policy   Policy
	minBlock int
	observer Observer

	// Statistics for testing and instrumentation
	stats Stats
}

// New builds an allocator over a, which it manages exclusively from now on.
// Any previous usage recorded on a is discarded.
//
// Parameters:
//   - a: The arena to allocate from
//   - cfg: Allocator configuration (use nil for DefaultConfig)
func New(a *arena.Arena, cfg *Config) (*FreeListAllocator, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	c, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if a == nil || a.Released() {
		return nil, fmt.Errorf("%w: arena missing or released", ErrInvalidArgument)
	}
	if a.Size() < c.MinBlockSize {
		return nil, fmt.Errorf("%w: arena of %d bytes cannot hold a %d byte block",
			ErrInvalidArgument, a.Size(), c.MinBlockSize)
	}

	fa := &FreeListAllocator{
		arena:    a,
		policy:   c.Policy,
		minBlock: c.MinBlockSize,
		observer: c.Observer,
	}
	fa.init()
	return fa, nil
}

// NewWithSize reserves a fresh arena of totalSize bytes and builds an
// allocator that owns it; Close releases the memory.
func NewWithSize(totalSize int, cfg *Config) (*FreeListAllocator, error) {
	a, err := arena.Reserve(totalSize)
	if err != nil {
		return nil, err
	}
	fa, err := New(a, cfg)
	if err != nil {
		_ = a.Release()
		return nil, err
	}
	fa.owned = true
	return fa, nil
}

// init makes the whole arena a single free block.
func (fa *FreeListAllocator) init() {
	fa.list.reset(fa.arena.Bytes())
	fa.arena.ResetUsage()
}

// padding returns the header-inclusive padding for a block starting at off.
func (fa *FreeListAllocator) padding(off, alignment int) int {
	return int(format.PaddingWithHeader(fa.arena.Addr(off), uintptr(alignment), format.HeaderSize))
}

// Allocate returns a payload of size bytes whose address is a multiple of
// alignment, plus a slice over it. The slice capacity covers any slack the
// block carries beyond size.
func (fa *FreeListAllocator) Allocate(size, alignment int) (Ptr, []byte, error) {
	fa.stats.AllocCalls++

	if fa.closed {
		return Nil, nil, ErrClosed
	}
	if size <= 0 {
		return Nil, nil, fmt.Errorf("%w: size %d", ErrInvalidArgument, size)
	}
	if alignment <= 0 || !format.IsPowerOfTwo(uintptr(alignment)) {
		return Nil, nil, fmt.Errorf("%w: alignment %d is not a power of two", ErrInvalidArgument, alignment)
	}

	var (
		off, need int
		found     bool
	)
	// Larger than the arena can never fit; also keeps size+padding from overflowing.
	if size <= fa.arena.Size() {
		off, need, found = fa.list.find(fa.policy, func(blockOff, blockSize int) (int, bool) {
			n := max(size+fa.padding(blockOff, alignment), fa.minBlock)
			return n, blockSize >= n
		})
	}
	if !found {
		fa.stats.FailedAllocs++
		err := fmt.Errorf("%w: need %d bytes aligned to %d (largest free block %d)",
			ErrOutOfMemory, size, alignment, fa.largestFree())
		fa.notify(Event{Op: OpAllocateFailed, Size: size, Alignment: alignment, Err: err})
		return Nil, nil, err
	}

	data := fa.arena.Bytes()
	padding := fa.padding(off, alignment)
	blockSize := fa.list.size(off)
	span := need
	split := blockSize-need >= fa.minBlock
	if split {
		// The remainder stays free and inherits the block's list slot.
		fa.list.replace(off, off+need, blockSize-need)
		fa.stats.Splits++
	} else {
		// Too small to stand alone: hand out the whole block.
		fa.list.remove(off)
		span = blockSize
		fa.stats.WholeBlocks++
	}

	p := off + padding
	format.PutHeader(data, p-format.HeaderSize, format.Header{
		Size:    uint64(span - padding),
		Padding: uint64(padding - format.HeaderSize),
	})
	if err := fa.arena.Consume(span); err != nil {
		return Nil, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	fa.stats.LiveAllocations++
	fa.stats.BytesAllocated += int64(span)
	fa.notify(Event{
		Op:        OpAllocate,
		Ptr:       Ptr(p),
		Block:     Block{Offset: off, Size: span},
		Size:      size,
		Alignment: alignment,
		Split:     split,
	})

	return Ptr(p), data[p : p+size : off+span], nil
}

// Free returns the block behind p to the free list, merging it with any
// contiguous free neighbors. p must come from Allocate on this allocator and
// must not have been freed since; violations are reported as ErrBadPointer
// when detectable.
func (fa *FreeListAllocator) Free(p Ptr) error {
	fa.stats.FreeCalls++

	if fa.closed {
		return ErrClosed
	}
	b, err := fa.span(p)
	if err != nil {
		return err
	}
	if b.Size > fa.arena.Used() {
		return fmt.Errorf("%w: block %v larger than used bytes %d", ErrBadPointer, b, fa.arena.Used())
	}

	backward, forward, err := fa.list.insert(b.Offset, b.Size)
	if err != nil {
		return err
	}
	if err := fa.arena.Reclaim(b.Size); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	fa.stats.LiveAllocations--
	fa.stats.BytesFreed += int64(b.Size)
	if backward {
		fa.stats.CoalesceBackward++
	}
	if forward {
		fa.stats.CoalesceForward++
	}
	fa.notify(Event{Op: OpFree, Ptr: p, Block: b, Backward: backward, Forward: forward})
	return nil
}

// Reset discards all outstanding allocations: the free list becomes a single
// block spanning the arena and usage drops to zero. The backing memory is
// neither released nor cleared.
func (fa *FreeListAllocator) Reset() error {
	if fa.closed {
		return ErrClosed
	}
	fa.stats.ResetCalls++
	fa.stats.LiveAllocations = 0
	fa.init()
	fa.notify(Event{Op: OpReset})
	return nil
}

// Close tears the allocator down. An arena reserved by NewWithSize is
// released; an arena passed to New is left to its owner. Closing twice is
// a no-op.
func (fa *FreeListAllocator) Close() error {
	if fa.closed {
		return nil
	}
	fa.closed = true
	fa.list = freeList{head: nilOff}
	if fa.owned {
		return fa.arena.Release()
	}
	return nil
}

// span decodes and validates the header in front of p.
func (fa *FreeListAllocator) span(p Ptr) (Block, error) {
	data := fa.arena.Bytes()
	off := int(p)
	if off < format.HeaderSize || off > len(data) {
		return Block{}, fmt.Errorf("%w: pointer %d outside arena of %d bytes", ErrBadPointer, off, len(data))
	}
	hdr, err := format.ReadHeader(data, off-format.HeaderSize)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %w", ErrBadPointer, err)
	}
	if hdr.Padding > uint64(off-format.HeaderSize) || hdr.Size > uint64(len(data)-off) {
		return Block{}, fmt.Errorf("%w: header at %d describes a block outside the arena", ErrBadPointer, off-format.HeaderSize)
	}
	b := Block{
		Offset: off - format.HeaderSize - int(hdr.Padding),
		Size:   int(hdr.Span()),
	}
	if b.Size < fa.minBlock {
		return Block{}, fmt.Errorf("%w: header at %d describes a %d byte block", ErrBadPointer, off-format.HeaderSize, b.Size)
	}
	return b, nil
}

// Span returns the full block (padding, header and payload) behind p.
func (fa *FreeListAllocator) Span(p Ptr) (Block, error) {
	if fa.closed {
		return Block{}, ErrClosed
	}
	return fa.span(p)
}

// Bytes returns the usable payload behind p, which may exceed the requested
// size when the allocation consumed a whole block.
func (fa *FreeListAllocator) Bytes(p Ptr) ([]byte, error) {
	b, err := fa.Span(p)
	if err != nil {
		return nil, err
	}
	return fa.arena.Bytes()[int(p):b.End():b.End()], nil
}

// Addr returns the absolute address of p.
func (fa *FreeListAllocator) Addr(p Ptr) uintptr { return fa.arena.Addr(int(p)) }

// Size returns the arena size in bytes.
func (fa *FreeListAllocator) Size() int { return fa.arena.Size() }

// Used returns the bytes currently handed out, headers and padding included.
func (fa *FreeListAllocator) Used() int { return fa.arena.Used() }

// Policy returns the placement policy chosen at construction.
func (fa *FreeListAllocator) Policy() Policy { return fa.policy }

// FreeBlocks yields the free blocks in address order. The allocator must not
// be mutated while iterating.
func (fa *FreeListAllocator) FreeBlocks() iter.Seq[Block] {
	return fa.list.all()
}

// Stats returns a snapshot of the allocator counters.
func (fa *FreeListAllocator) Stats() Stats {
	s := fa.stats
	s.ScanSteps = fa.list.scanned
	return s
}

// Fragmentation summarizes the free list.
func (fa *FreeListAllocator) Fragmentation() Fragmentation {
	var f Fragmentation
	for b := range fa.list.all() {
		f.FreeBlocks++
		f.FreeBytes += b.Size
		f.LargestFree = max(f.LargestFree, b.Size)
	}
	if f.FreeBytes > 0 {
		f.Ratio = 1 - float64(f.LargestFree)/float64(f.FreeBytes)
	}
	return f
}

func (fa *FreeListAllocator) largestFree() int {
	largest := 0
	for b := range fa.list.all() {
		largest = max(largest, b.Size)
	}
	return largest
}

// notify hands e to the observer with the post-operation totals filled in.
func (fa *FreeListAllocator) notify(e Event) {
	if fa.observer == nil {
		return
	}
	e.Used = fa.arena.Used()
	e.FreeCount = fa.list.count
	fa.observer.Observe(e)
}
