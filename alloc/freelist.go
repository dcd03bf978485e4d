package alloc

import (
	"fmt"
	"iter"
	"math"

	"github.com/joshuapare/freelist/internal/format"
)

// nilOff marks an absent list link or an empty list.
const nilOff = -1

// freeList is the address-ordered, doubly-linked list of free blocks. It owns
// no memory: every node lives in the first FreeNodeSize bytes of the free
// block it describes, inside the arena.
//
// Invariants:
//   - offsets strictly increase along next
//   - no two blocks are contiguous (insert always merges them)
//   - head is nilOff exactly when count is 0
type freeList struct {
	data  []byte
	head  int
	count int

	// scanned counts nodes visited by inserts and placement searches.
	scanned int
}

// fitFunc reports the span a request needs from the free block at off with
// the given size, and whether the block is large enough. Padding depends on
// the block address, so the need is recomputed per candidate.
type fitFunc func(off, size int) (need int, ok bool)

// ---- Node accessors (operate directly on arena bytes) ----

func (l *freeList) size(off int) int {
	return int(format.ReadU64(l.data, off+format.FreeSizeOffset))
}

func (l *freeList) setSize(off, size int) {
	format.PutU64(l.data, off+format.FreeSizeOffset, uint64(size))
}

func (l *freeList) prev(off int) int {
	return format.ReadLink(l.data, off+format.FreePrevOffset)
}

func (l *freeList) setPrev(off, prev int) {
	format.PutLink(l.data, off+format.FreePrevOffset, prev)
}

func (l *freeList) next(off int) int {
	return format.ReadLink(l.data, off+format.FreeNextOffset)
}

func (l *freeList) setNext(off, next int) {
	format.PutLink(l.data, off+format.FreeNextOffset, next)
}

// reset makes the whole of data one free block.
func (l *freeList) reset(data []byte) {
	l.data = data
	l.head = 0
	l.count = 1
	format.PutFreeNode(data, 0, format.FreeNode{Size: len(data), Prev: nilOff, Next: nilOff})
}

// insert adds the block [off, off+size) at its address-sorted position and
// merges it with a contiguous predecessor and then a contiguous successor.
// It reports which merges happened. A block overlapping existing free space
// is rejected without touching the list.
func (l *freeList) insert(off, size int) (backward, forward bool, err error) {
	prev, next := nilOff, l.head
	for next != nilOff && next < off {
		prev = next
		next = l.next(next)
		l.scanned++
	}

	if prev != nilOff && prev+l.size(prev) > off {
		return false, false, fmt.Errorf("%w: block %v overlaps free block at %d",
			ErrBadPointer, Block{off, size}, prev)
	}
	if next != nilOff && off+size > next {
		return false, false, fmt.Errorf("%w: block %v overlaps free block at %d",
			ErrBadPointer, Block{off, size}, next)
	}

	// Splice. The head has no predecessor, so the root moves instead.
	format.PutFreeNode(l.data, off, format.FreeNode{Size: size, Prev: prev, Next: next})
	if prev == nilOff {
		l.head = off
	} else {
		l.setNext(prev, off)
	}
	if next != nilOff {
		l.setPrev(next, off)
	}
	l.count++

	if prev != nilOff && prev+l.size(prev) == off {
		// Absorb the new node into its predecessor.
		l.setSize(prev, l.size(prev)+size)
		l.setNext(prev, next)
		if next != nilOff {
			l.setPrev(next, prev)
		}
		l.count--
		off = prev
		backward = true
	}

	if next != nilOff && off+l.size(off) == next {
		// Absorb the successor.
		after := l.next(next)
		l.setSize(off, l.size(off)+l.size(next))
		l.setNext(off, after)
		if after != nilOff {
			l.setPrev(after, off)
		}
		l.count--
		forward = true
	}

	return backward, forward, nil
}

// remove unlinks the block at off. Removing the head moves the root, and
// removing the only block empties the list.
func (l *freeList) remove(off int) {
	prev, next := l.prev(off), l.next(off)
	if prev == nilOff {
		l.head = next
	} else {
		l.setNext(prev, next)
	}
	if next != nilOff {
		l.setPrev(next, prev)
	}
	l.count--
}

// replace moves the list slot of the block at old to a new node at newOff
// with newSize. Used for split remainders, which sit strictly inside the old
// block and so keep its neighbors and its position in address order.
func (l *freeList) replace(old, newOff, newSize int) {
	prev, next := l.prev(old), l.next(old)
	format.PutFreeNode(l.data, newOff, format.FreeNode{Size: newSize, Prev: prev, Next: next})
	if prev == nilOff {
		l.head = newOff
	} else {
		l.setNext(prev, newOff)
	}
	if next != nilOff {
		l.setPrev(next, newOff)
	}
}

// find dispatches to the placement search for policy.
func (l *freeList) find(policy Policy, fit fitFunc) (off, need int, ok bool) {
	if policy == BestFit {
		return l.findBestFit(fit)
	}
	return l.findFirstFit(fit)
}

// findFirstFit returns the first block, in address order, that fits.
func (l *freeList) findFirstFit(fit fitFunc) (off, need int, ok bool) {
	for it := l.head; it != nilOff; it = l.next(it) {
		l.scanned++
		if n, fits := fit(it, l.size(it)); fits {
			return it, n, true
		}
	}
	return nilOff, 0, false
}

// findBestFit scans the whole list for the fitting block that leaves the
// smallest remainder. Ties keep the first (lowest address) candidate.
func (l *freeList) findBestFit(fit fitFunc) (off, need int, ok bool) {
	smallestDiff := math.MaxInt
	off = nilOff
	for it := l.head; it != nilOff; it = l.next(it) {
		l.scanned++
		size := l.size(it)
		n, fits := fit(it, size)
		if !fits {
			continue
		}
		if diff := size - n; diff < smallestDiff {
			smallestDiff = diff
			off, need = it, n
			if diff == 0 {
				break
			}
		}
	}
	return off, need, off != nilOff
}

// all yields free blocks in address order.
func (l *freeList) all() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for it := l.head; it != nilOff; it = l.next(it) {
			if !yield(Block{Offset: it, Size: l.size(it)}) {
				return
			}
		}
	}
}
