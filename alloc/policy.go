package alloc

import (
	"fmt"
	"strings"
)

// Policy selects which free block satisfies a request. It is fixed for the
// lifetime of an allocator and only changes which candidate is picked, never
// the list invariants.
type Policy uint8

const (
	// FirstFit takes the lowest-address block that fits. Scans stop early,
	// but the low end of the arena tends to fill with small fragments.
	FirstFit Policy = iota

	// BestFit scans every free block and takes the one leaving the smallest
	// remainder, lowest address on ties. Slower, but fragments less.
	BestFit
)

func (p Policy) String() string {
	switch p {
	case FirstFit:
		return "first-fit"
	case BestFit:
		return "best-fit"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// Valid reports whether p names a known policy.
func (p Policy) Valid() bool {
	return p == FirstFit || p == BestFit
}

// ParsePolicy accepts "first", "first-fit", "best" or "best-fit" (any case).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "first-fit", "firstfit":
		return FirstFit, nil
	case "best", "best-fit", "bestfit":
		return BestFit, nil
	default:
		return 0, fmt.Errorf("%w: unknown policy %q", ErrInvalidArgument, s)
	}
}

// MarshalText encodes p by name, so JSON output reads "best-fit" rather
// than 1.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: unknown policy %d", ErrInvalidArgument, p)
	}
	return []byte(p.String()), nil
}

// UnmarshalText accepts any name ParsePolicy does.
func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
