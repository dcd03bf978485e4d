package alloc

import (
	"fmt"

	"github.com/joshuapare/freelist/internal/format"
)

// Config controls allocator construction. The zero value of each field means
// "use the default".
type Config struct {
	// Policy chooses between first-fit and best-fit placement.
	Policy Policy

	// MinBlockSize is the smallest span a block may have. A split whose
	// remainder would fall below it consumes the whole block instead, and
	// small requests are rounded up to it so a freed block can always hold
	// its list node. Must be at least format.FreeNodeSize (24 bytes).
	MinBlockSize int

	// Observer, when non-nil, is called after every allocator mutation.
	Observer Observer
}

// DefaultConfig is first-fit with the smallest legal block size.
var DefaultConfig = Config{
	Policy:       FirstFit,
	MinBlockSize: format.FreeNodeSize,
}

// withDefaults fills unset fields and validates the result.
func (c Config) withDefaults() (Config, error) {
	if !c.Policy.Valid() {
		return c, fmt.Errorf("%w: unknown policy %d", ErrInvalidArgument, c.Policy)
	}
	if c.MinBlockSize == 0 {
		c.MinBlockSize = DefaultConfig.MinBlockSize
	}
	if c.MinBlockSize < format.FreeNodeSize {
		return c, fmt.Errorf("%w: min block size %d below free node size %d",
			ErrInvalidArgument, c.MinBlockSize, format.FreeNodeSize)
	}
	if c.Observer == nil && logAlloc {
		c.Observer = defaultLogObserver()
	}
	return c, nil
}
