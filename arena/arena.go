// Package arena reserves the fixed byte range that a free-list allocator
// manages and keeps the running usage counter for it.
//
// An Arena is reserved once, never resized, and released exactly once.
// On Linux, macOS and FreeBSD the bytes come from an anonymous private
// memory mapping, on Windows from VirtualAlloc, and elsewhere from an
// ordinary heap slice trimmed to a page boundary. In every case the base
// address is page aligned, so arena offsets and absolute addresses agree
// modulo any alignment up to the page size.
//
// Arenas are not thread-safe. The owner synchronizes access externally.
package arena

import (
	"errors"
	"fmt"
	"unsafe"
)

var (
	// ErrInvalidSize indicates a reservation of zero or negative bytes.
	ErrInvalidSize = errors.New("arena: invalid size")

	// ErrReleased indicates the backing memory was already released.
	ErrReleased = errors.New("arena: released")

	// ErrUsage indicates a usage update that would leave used outside [0, size].
	ErrUsage = errors.New("arena: usage counter out of range")
)

// Arena is a fixed-size byte range plus the count of bytes handed out from it.
type Arena struct {
	data     []byte
	base     uintptr
	used     int
	release  func() error
	released bool
}

// Reserve obtains totalSize bytes of zeroed, page-aligned memory.
func Reserve(totalSize int) (*Arena, error) {
	if totalSize <= 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSize, totalSize)
	}
	data, release, err := reserve(totalSize)
	if err != nil {
		return nil, fmt.Errorf("arena: reserve %d bytes: %w", totalSize, err)
	}
	return newArena(data, release), nil
}

// FromBytes wraps a caller-owned buffer. Release only detaches the buffer;
// the memory itself stays with the caller.
//
// The caller should not touch buf directly while the arena is in use.
func FromBytes(buf []byte) (*Arena, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidSize)
	}
	return newArena(buf, func() error { return nil }), nil
}

func newArena(data []byte, release func() error) *Arena {
	return &Arena{
		data:    data,
		base:    uintptr(unsafe.Pointer(unsafe.SliceData(data))),
		release: release,
	}
}

// Bytes returns the whole backing range. Nil after Release.
func (a *Arena) Bytes() []byte { return a.data }

// Size returns the total number of bytes in the arena.
func (a *Arena) Size() int { return len(a.data) }

// Used returns the number of bytes currently handed out.
func (a *Arena) Used() int { return a.used }

// Available returns Size() - Used().
func (a *Arena) Available() int { return len(a.data) - a.used }

// Base returns the absolute address of offset 0.
func (a *Arena) Base() uintptr { return a.base }

// Addr returns the absolute address of the byte at off.
func (a *Arena) Addr(off int) uintptr { return a.base + uintptr(off) }

// Released reports whether Release has run.
func (a *Arena) Released() bool { return a.released }

// Consume records n more bytes as in use.
func (a *Arena) Consume(n int) error {
	if a.released {
		return ErrReleased
	}
	if n < 0 || a.used+n > len(a.data) {
		return fmt.Errorf("%w: used=%d consume=%d size=%d", ErrUsage, a.used, n, len(a.data))
	}
	a.used += n
	return nil
}

// Reclaim records n bytes as no longer in use.
func (a *Arena) Reclaim(n int) error {
	if a.released {
		return ErrReleased
	}
	if n < 0 || n > a.used {
		return fmt.Errorf("%w: used=%d reclaim=%d", ErrUsage, a.used, n)
	}
	a.used -= n
	return nil
}

// ResetUsage sets the usage counter back to zero. The bytes are not touched.
func (a *Arena) ResetUsage() {
	a.used = 0
}

// Release returns the backing memory. Calling it again is a no-op.
func (a *Arena) Release() error {
	if a.released {
		return nil
	}
	a.released = true
	err := a.release()
	a.data = nil
	a.base = 0
	a.used = 0
	return err
}
