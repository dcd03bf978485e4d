package format

import "fmt"

// Header is the decoded form of the metadata preceding an allocated payload.
//
// Header layout (little-endian):
//
//	Offset  Size  Description
//	0x00    8     Payload span: bytes from the payload start to the block end.
//	0x08    8     Alignment padding placed before the header (excludes the header).
//
// The block that owns the header therefore starts at
// payload - HeaderSize - Padding and spans Size + Padding + HeaderSize bytes.
type Header struct {
	Size    uint64
	Padding uint64
}

// Span returns the full block span described by the header.
func (h Header) Span() uint64 {
	return h.Size + h.Padding + HeaderSize
}

// FreeNode is the decoded form of the list node stored at the start of a free
// block. Prev and Next are arena offsets, -1 when absent.
//
// FreeNode layout (little-endian):
//
//	Offset  Size  Description
//	0x00    8     Full span of the free block.
//	0x08    8     Previous free block offset or NilLink.
//	0x10    8     Next free block offset or NilLink.
type FreeNode struct {
	Size int
	Prev int
	Next int
}

// ReadHeader decodes the header stored at off.
func ReadHeader(b []byte, off int) (Header, error) {
	if off < 0 || off+HeaderSize > len(b) {
		return Header{}, fmt.Errorf("header at %d: %w", off, ErrTruncated)
	}
	return Header{
		Size:    ReadU64(b, off+HeaderSizeOffset),
		Padding: ReadU64(b, off+HeaderPaddingOffset),
	}, nil
}

// PutHeader encodes h at off. The caller guarantees the bytes exist.
func PutHeader(b []byte, off int, h Header) {
	PutU64(b, off+HeaderSizeOffset, h.Size)
	PutU64(b, off+HeaderPaddingOffset, h.Padding)
}

// ReadFreeNode decodes the free node stored at off.
func ReadFreeNode(b []byte, off int) (FreeNode, error) {
	if off < 0 || off+FreeNodeSize > len(b) {
		return FreeNode{}, fmt.Errorf("free node at %d: %w", off, ErrTruncated)
	}
	return FreeNode{
		Size: int(ReadU64(b, off+FreeSizeOffset)),
		Prev: ReadLink(b, off+FreePrevOffset),
		Next: ReadLink(b, off+FreeNextOffset),
	}, nil
}

// PutFreeNode encodes n at off. The caller guarantees the bytes exist.
func PutFreeNode(b []byte, off int, n FreeNode) {
	PutU64(b, off+FreeSizeOffset, uint64(n.Size))
	PutLink(b, off+FreePrevOffset, n.Prev)
	PutLink(b, off+FreeNextOffset, n.Next)
}
