//go:build windows

package arena

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// reserve commits size bytes with VirtualAlloc. Windows returns zeroed memory
// aligned to the allocation granularity.
func reserve(size int) ([]byte, func() error, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, err
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	cleanup := func() error {
		return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
	}
	return data, cleanup, nil
}

// PageSize returns the operating system page size.
func PageSize() int {
	return windows.Getpagesize()
}
