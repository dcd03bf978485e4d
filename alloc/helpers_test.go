package alloc

import (
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/freelist/internal/format"
)

// ============================================================================
// Allocator Creation Utilities
// ============================================================================

// newTestAllocator reserves an arena of size bytes and builds an allocator
// with the given policy. The allocator is closed when the test ends.
func newTestAllocator(t testing.TB, size int, policy Policy) *FreeListAllocator {
	t.Helper()

	fa, err := NewWithSize(size, &Config{Policy: policy})
	require.NoError(t, err)
	t.Cleanup(func() { _ = fa.Close() })
	return fa
}

// allocSpan allocates a block whose full span is exactly span bytes, taken
// from the head of the free list. Byte alignment always needs exactly one
// header of padding, so the payload is span - HeaderSize.
func allocSpan(t testing.TB, fa *FreeListAllocator, span int) Ptr {
	t.Helper()

	p, _, err := fa.Allocate(span-format.HeaderSize, 1)
	require.NoError(t, err)
	b, err := fa.Span(p)
	require.NoError(t, err)
	require.Equal(t, span, b.Size, "block at %d should span exactly %d bytes", b.Offset, span)
	return p
}

// carve fills the arena with blocks of the given spans, in address order.
// The spans must add up to the arena size.
func carve(t testing.TB, fa *FreeListAllocator, spans ...int) []Ptr {
	t.Helper()

	total := 0
	for _, s := range spans {
		total += s
	}
	require.Equal(t, fa.Size(), total, "carve spans must tile the arena")

	ptrs := make([]Ptr, len(spans))
	for i, s := range spans {
		ptrs[i] = allocSpan(t, fa, s)
	}
	require.Empty(t, freeBlocks(fa), "arena should be fully allocated after carve")
	return ptrs
}

// freeBlocks collects the free list in address order.
func freeBlocks(fa *FreeListAllocator) []Block {
	return slices.Collect(fa.FreeBlocks())
}

// ============================================================================
// Invariant Assertions
// ============================================================================

// assertSingleFreeBlock verifies the allocator is back in its initial state.
func assertSingleFreeBlock(t testing.TB, fa *FreeListAllocator) {
	t.Helper()

	require.Equal(t, []Block{{Offset: 0, Size: fa.Size()}}, freeBlocks(fa))
	require.Zero(t, fa.Used())
	require.NoError(t, fa.Check())
}

// assertTiling verifies that the free blocks plus the blocks behind live
// exactly tile the arena, and that no two free blocks are contiguous.
func assertTiling(t testing.TB, fa *FreeListAllocator, live map[Ptr]int) {
	t.Helper()

	require.NoError(t, fa.Check())

	type span struct {
		Block
		free bool
	}
	var spans []span
	for b := range fa.FreeBlocks() {
		spans = append(spans, span{b, true})
	}
	used := 0
	for p := range live {
		b, err := fa.Span(p)
		require.NoError(t, err)
		spans = append(spans, span{b, false})
		used += b.Size
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Offset < spans[j].Offset })

	cur := 0
	for i, s := range spans {
		require.Equal(t, cur, s.Offset, "gap or overlap before %v", s.Block)
		if i > 0 && s.free {
			require.False(t, spans[i-1].free, "free blocks %v and %v not coalesced", spans[i-1].Block, s.Block)
		}
		cur = s.End()
	}
	require.Equal(t, fa.Size(), cur, "blocks must cover the whole arena")
	require.Equal(t, used, fa.Used(), "used counter must match live spans")
}

// ============================================================================
// Observer Utilities
// ============================================================================

// eventRecorder captures observer events.
type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) Observe(e Event) { r.events = append(r.events, e) }

func (r *eventRecorder) ops() []Op {
	ops := make([]Op, len(r.events))
	for i, e := range r.events {
		ops[i] = e.Op
	}
	return ops
}
