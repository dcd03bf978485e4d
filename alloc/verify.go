package alloc

import "fmt"

// Check walks the free list and verifies its structural invariants:
//
//   - every node lies inside the arena and spans at least MinBlockSize bytes
//   - back links mirror forward links and the head has no predecessor
//   - offsets strictly increase and no two free blocks touch
//   - the node count matches, so the walk cannot cycle
//   - free bytes plus used bytes equal the arena size
//
// The last point is the aggregate form of the tiling invariant: with free
// blocks disjoint and every allocation accounted in Used, the arena has
// neither gaps nor double coverage.
func (fa *FreeListAllocator) Check() error {
	if fa.closed {
		return ErrClosed
	}
	l := &fa.list
	total := len(l.data)

	prev, prevEnd := nilOff, -1
	count, freeBytes := 0, 0
	for it := l.head; it != nilOff; it = l.next(it) {
		if count >= l.count {
			return fmt.Errorf("%w: more than %d nodes reachable", ErrCorrupt, l.count)
		}
		if it < 0 || it+fa.minBlock > total {
			return fmt.Errorf("%w: node at %d outside arena of %d bytes", ErrCorrupt, it, total)
		}
		size := l.size(it)
		if size < fa.minBlock || it+size > total {
			return fmt.Errorf("%w: node at %d has size %d", ErrCorrupt, it, size)
		}
		if got := l.prev(it); got != prev {
			return fmt.Errorf("%w: node at %d has prev %d, want %d", ErrCorrupt, it, got, prev)
		}
		if it < prevEnd {
			return fmt.Errorf("%w: node at %d overlaps or precedes block ending at %d", ErrCorrupt, it, prevEnd)
		}
		if it == prevEnd {
			return fmt.Errorf("%w: blocks at %d and %d are contiguous but not coalesced", ErrCorrupt, prev, it)
		}
		prev, prevEnd = it, it+size
		count++
		freeBytes += size
	}

	if count != l.count {
		return fmt.Errorf("%w: walked %d nodes, list records %d", ErrCorrupt, count, l.count)
	}
	if used := fa.arena.Used(); freeBytes+used != total {
		return fmt.Errorf("%w: free %d + used %d != arena %d", ErrCorrupt, freeBytes, used, total)
	}
	return nil
}
