package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_Coalesce_ThreeAdjacentBlocks frees A, C, then B out of A|B|C|rest and
// checks every merge direction along the way.
func Test_Coalesce_ThreeAdjacentBlocks(t *testing.T) {
	fa := newTestAllocator(t, 1024, FirstFit)

	a := allocSpan(t, fa, 100)
	b := allocSpan(t, fa, 100)
	c := allocSpan(t, fa, 100)
	require.Equal(t, []Block{{300, 724}}, freeBlocks(fa))

	// A has no free neighbor.
	require.NoError(t, fa.Free(a))
	require.Equal(t, []Block{{0, 100}, {300, 724}}, freeBlocks(fa))
	require.Zero(t, fa.Stats().CoalesceBackward)
	require.Zero(t, fa.Stats().CoalesceForward)

	// C absorbs the trailing free space.
	require.NoError(t, fa.Free(c))
	require.Equal(t, []Block{{0, 100}, {200, 824}}, freeBlocks(fa))
	require.Equal(t, 1, fa.Stats().CoalesceForward)

	// B bridges both sides.
	require.NoError(t, fa.Free(b))
	assertSingleFreeBlock(t, fa)
	require.Equal(t, 1, fa.Stats().CoalesceBackward)
	require.Equal(t, 2, fa.Stats().CoalesceForward)
}

// Test_Coalesce_NewHead frees a block in front of the current list head.
func Test_Coalesce_NewHead(t *testing.T) {
	fa := newTestAllocator(t, 1024, FirstFit)
	ptrs := carve(t, fa, 200, 200, 624)

	require.NoError(t, fa.Free(ptrs[1]))
	require.Equal(t, []Block{{200, 200}}, freeBlocks(fa))

	require.NoError(t, fa.Free(ptrs[0]))
	require.Equal(t, []Block{{0, 400}}, freeBlocks(fa), "new head merges with old head")
	require.NoError(t, fa.Check())

	require.NoError(t, fa.Free(ptrs[2]))
	assertSingleFreeBlock(t, fa)
}

// Test_Coalesce_FreeOrderIndependent frees the same layout in every order of
// four blocks and expects a single block each time.
func Test_Coalesce_FreeOrderIndependent(t *testing.T) {
	orders := permutations([]int{0, 1, 2, 3})
	require.Len(t, orders, 24)

	for _, order := range orders {
		fa := newTestAllocator(t, 1024, FirstFit)
		ptrs := carve(t, fa, 128, 256, 64, 576)
		live := map[Ptr]int{ptrs[0]: 0, ptrs[1]: 0, ptrs[2]: 0, ptrs[3]: 0}

		for _, i := range order {
			require.NoError(t, fa.Free(ptrs[i]), "order %v", order)
			delete(live, ptrs[i])
			assertTiling(t, fa, live)
		}
		assertSingleFreeBlock(t, fa)
	}
}

func permutations(xs []int) [][]int {
	if len(xs) <= 1 {
		return [][]int{append([]int(nil), xs...)}
	}
	var out [][]int
	for i := range xs {
		rest := make([]int, 0, len(xs)-1)
		rest = append(rest, xs[:i]...)
		rest = append(rest, xs[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]int{xs[i]}, p...))
		}
	}
	return out
}
