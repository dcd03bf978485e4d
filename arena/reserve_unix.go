//go:build linux || darwin || freebsd

package arena

import (
	"errors"

	"golang.org/x/sys/unix"
)

// reserve maps size bytes of anonymous private memory. The kernel hands back
// zeroed, page-aligned pages.
func reserve(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, cleanup, nil
}

// PageSize returns the operating system page size.
func PageSize() int {
	return unix.Getpagesize()
}
