// Package format describes the in-arena metadata layout shared by the
// allocator: the allocated block header, the free block node that overlays
// it, and the alignment arithmetic used to place headers in front of
// payloads. Everything here operates on plain byte slices so the layout is
// independent of Go struct alignment rules.
package format

import "math"

const (
	// WordSize is the width of every metadata field (a 64-bit little-endian word).
	WordSize = 8

	// HeaderSize is the size of the header that immediately precedes every
	// allocated payload.
	//
	// Layout (little-endian, relative to the header address):
	//   0x00  size     payload span (block span minus total padding)
	//   0x08  padding  alignment bytes placed before the header
	HeaderSize = 2 * WordSize

	// HeaderSizeOffset is the offset of the size field inside a header.
	HeaderSizeOffset = 0x00

	// HeaderPaddingOffset is the offset of the padding field inside a header.
	HeaderPaddingOffset = 0x08

	// FreeNodeSize is the size of the list node stored at the start of every
	// free block. It is also the smallest span a block may ever have, since a
	// block that cannot hold its node cannot be returned to the free list.
	//
	// Layout (little-endian, relative to the block start):
	//   0x00  size  full span of the free block
	//   0x08  prev  arena offset of the previous free block, or NilLink
	//   0x10  next  arena offset of the next free block, or NilLink
	FreeNodeSize = 3 * WordSize

	// FreeSizeOffset is the offset of the size field inside a free node.
	FreeSizeOffset = 0x00

	// FreePrevOffset is the offset of the back link inside a free node.
	FreePrevOffset = 0x08

	// FreeNextOffset is the offset of the forward link inside a free node.
	FreeNextOffset = 0x10

	// NilLink marks an absent prev/next link on disk-style encoded nodes.
	NilLink = math.MaxUint64
)
