//go:build !linux && !darwin && !freebsd && !windows

package arena

import "unsafe"

// fallbackPageSize is the alignment applied to heap-backed arenas.
const fallbackPageSize = 4096

// reserve allocates from the Go heap when no mapping API is wired up. The
// slice is over-allocated and trimmed so its base is page aligned like the
// mapped variants.
func reserve(size int) ([]byte, func() error, error) {
	raw := make([]byte, size+fallbackPageSize)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	skip := int((fallbackPageSize - addr%fallbackPageSize) % fallbackPageSize)
	return raw[skip : skip+size : skip+size], func() error { return nil }, nil
}

// PageSize returns the alignment guaranteed for the arena base.
func PageSize() int {
	return fallbackPageSize
}
