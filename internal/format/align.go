package format

// Alignment utilities for payload placement.
// Alignments are always powers of two, so rounding uses masks.

// IsPowerOfTwo reports whether n is a positive power of two.
//
// Example:
//
//	IsPowerOfTwo(1)  = true
//	IsPowerOfTwo(8)  = true
//	IsPowerOfTwo(12) = false
//	IsPowerOfTwo(0)  = false
func IsPowerOfTwo(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

// AlignUp returns addr rounded up to the next multiple of alignment.
// alignment must be a power of two.
//
// Example:
//
//	AlignUp(1, 8)  = 8
//	AlignUp(8, 8)  = 8
//	AlignUp(9, 16) = 16
func AlignUp(addr, alignment uintptr) uintptr {
	mask := alignment - 1
	return (addr + mask) &^ mask
}

// Padding returns the number of bytes needed to move addr up to a multiple
// of alignment. alignment must be a power of two.
func Padding(addr, alignment uintptr) uintptr {
	return AlignUp(addr, alignment) - addr
}

// PaddingWithHeader returns the smallest padding such that addr+padding is a
// multiple of alignment and at least headerSize bytes fit between addr and
// the aligned address. alignment must be a power of two.
//
// Example (alignment 16, header 16):
//
//	PaddingWithHeader(0, 16, 16)  = 16
//	PaddingWithHeader(8, 16, 16)  = 24
//	PaddingWithHeader(24, 16, 16) = 24
//	PaddingWithHeader(5, 1, 16)   = 16
func PaddingWithHeader(addr, alignment, headerSize uintptr) uintptr {
	padding := Padding(addr, alignment)
	if padding >= headerSize {
		return padding
	}
	needed := headerSize - padding
	// Add whole alignment steps until the header fits.
	return padding + AlignUp(needed, alignment)
}
