package sim

import (
	"fmt"
	"slices"

	"github.com/joshuapare/freelist/alloc"
	"github.com/joshuapare/freelist/internal/format"
)

// scenarioSpacer is the span of the allocated blocks separating the free
// blocks of a placement scenario.
const scenarioSpacer = 32

// Placement is the outcome of a placement scenario.
type Placement struct {
	Policy alloc.Policy  `json:"policy"`
	Free   []alloc.Block `json:"free"`   // free list before the request
	Chosen alloc.Block   `json:"chosen"` // block handed out for the request
	After  []alloc.Block `json:"after"`  // free list after the request
}

// PlacementScenario lays out free blocks with the given spans, in address
// order and separated by allocated spacers, inside an arena of arenaSize
// bytes, then requests a block needing exactly need bytes at byte alignment.
// It shows which block each policy picks for the same free list.
func PlacementScenario(policy alloc.Policy, arenaSize int, spans []int, need int) (Placement, error) {
	if need <= format.HeaderSize {
		return Placement{}, fmt.Errorf("%w: need %d must exceed the %d byte header", ErrBadConfig, need, format.HeaderSize)
	}
	for _, s := range spans {
		if s < format.FreeNodeSize {
			return Placement{}, fmt.Errorf("%w: block span %d below %d", ErrBadConfig, s, format.FreeNodeSize)
		}
	}
	fa, err := alloc.NewWithSize(arenaSize, &alloc.Config{Policy: policy})
	if err != nil {
		return Placement{}, err
	}
	defer fa.Close()

	// Carve: candidate, spacer, candidate, spacer, ..., filler.
	var carved []alloc.Ptr
	for i, s := range spans {
		p, _, err := fa.Allocate(s-format.HeaderSize, 1)
		if err != nil {
			return Placement{}, fmt.Errorf("sim: carve block %d of %d bytes: %w", i, s, err)
		}
		carved = append(carved, p)
		if _, _, err := fa.Allocate(scenarioSpacer-format.HeaderSize, 1); err != nil {
			return Placement{}, fmt.Errorf("sim: carve spacer %d: %w", i, err)
		}
	}
	// Fill whatever is left so only the candidates end up free.
	for _, tail := range slices.Collect(fa.FreeBlocks()) {
		if _, _, err := fa.Allocate(tail.Size-format.HeaderSize, 1); err != nil {
			return Placement{}, fmt.Errorf("sim: carve filler: %w", err)
		}
	}
	for _, p := range carved {
		if err := fa.Free(p); err != nil {
			return Placement{}, err
		}
	}

	pl := Placement{Policy: policy, Free: slices.Collect(fa.FreeBlocks())}
	p, _, err := fa.Allocate(need-format.HeaderSize, 1)
	if err != nil {
		return pl, err
	}
	if pl.Chosen, err = fa.Span(p); err != nil {
		return pl, err
	}
	pl.After = slices.Collect(fa.FreeBlocks())
	return pl, nil
}
