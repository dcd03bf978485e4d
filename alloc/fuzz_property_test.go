package alloc

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_Fuzz_RandomAllocFree_GuardInvariants performs random allocate/free/reset
// sequences and validates tiling and coalescing after every step.
func Test_Fuzz_RandomAllocFree_GuardInvariants(t *testing.T) {
	for _, policy := range []Policy{FirstFit, BestFit} {
		for _, seed := range []int64{1, 42, 1337} {
			fa := newTestAllocator(t, 32*1024, policy)
			rng := rand.New(rand.NewSource(seed)) // Fixed seed for reproducibility
			live := make(map[Ptr]int)
			var order []Ptr

			for step := range 2000 {
				switch op := rng.Intn(100); {
				case op < 55: // Allocate
					size := 1 + rng.Intn(700)
					align := 1 << rng.Intn(8)
					p, buf, err := fa.Allocate(size, align)
					if errors.Is(err, ErrOutOfMemory) {
						continue
					}
					require.NoError(t, err, "%v seed %d step %d", policy, seed, step)
					require.Zero(t, int(p)%align)
					for i := range buf {
						buf[i] = byte(p)
					}
					live[p] = size
					order = append(order, p)

				case op < 99: // Free a random live allocation
					if len(order) == 0 {
						continue
					}
					i := rng.Intn(len(order))
					p := order[i]
					order[i] = order[len(order)-1]
					order = order[:len(order)-1]

					buf, err := fa.Bytes(p)
					require.NoError(t, err)
					for j := range live[p] {
						require.Equal(t, byte(p), buf[j], "payload at %d clobbered", p)
					}
					require.NoError(t, fa.Free(p), "%v seed %d step %d", policy, seed, step)
					delete(live, p)

				default: // Reset
					require.NoError(t, fa.Reset())
					clear(live)
					order = order[:0]
				}

				assertTiling(t, fa, live)
			}

			for _, p := range order {
				require.NoError(t, fa.Free(p))
			}
			assertSingleFreeBlock(t, fa)
		}
	}
}
