package format

import "encoding/binary"

// Binary encoding utilities for the little-endian metadata words.
//
// Implementation: Uses encoding/binary.LittleEndian. The compiler inlines
// these calls, and going through a byte slice keeps metadata reads valid at
// any offset, including unaligned split remainders.

// PutU64 writes a uint64 value to the buffer at the specified offset in little-endian format.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+WordSize], v)
}

// ReadU64 reads a uint64 value from the buffer at the specified offset in little-endian format.
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+WordSize])
}

// PutLink writes an arena offset link, encoding a negative offset as NilLink.
func PutLink(b []byte, off int, link int) {
	if link < 0 {
		PutU64(b, off, NilLink)
		return
	}
	PutU64(b, off, uint64(link))
}

// ReadLink reads an arena offset link, decoding NilLink as -1.
func ReadLink(b []byte, off int) int {
	v := ReadU64(b, off)
	if v == NilLink {
		return -1
	}
	return int(v)
}
