// Package sim generates deterministic allocate/free workloads and replays
// them against an allocator, so placement policies can be compared on the
// exact same request stream.
package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/joshuapare/freelist/alloc"
)

// ErrBadConfig indicates an unusable workload configuration.
var ErrBadConfig = errors.New("sim: bad config")

// Kind is the type of a workload step.
type Kind uint8

const (
	KindAlloc Kind = iota + 1
	KindFree
)

// Step is one request. Slot ties a free to the allocation it releases.
type Step struct {
	Kind  Kind
	Slot  int
	Size  int // KindAlloc only
	Align int // KindAlloc only
}

// Workload is a replayable sequence of steps.
type Workload struct {
	Steps []Step
	Slots int // number of distinct allocation slots
}

// Config shapes a generated workload.
type Config struct {
	Steps      int     // Total steps to generate
	MinSize    int     // Smallest payload
	MaxSize    int     // Largest payload (inclusive)
	Alignments []int   // Alignments to draw from; nil means {8}
	FreeRatio  float64 // Probability of a free when something is live
	MaxLive    int     // Force a free once this many slots are live; 0 means unbounded
	Seed       int64
}

// DefaultConfig is a mixed small-object workload.
var DefaultConfig = Config{
	Steps:      10000,
	MinSize:    8,
	MaxSize:    512,
	Alignments: []int{8, 16},
	FreeRatio:  0.45,
	MaxLive:    1024,
	Seed:       1,
}

func (c Config) validate() error {
	switch {
	case c.Steps <= 0:
		return fmt.Errorf("%w: steps %d", ErrBadConfig, c.Steps)
	case c.MinSize <= 0 || c.MaxSize < c.MinSize:
		return fmt.Errorf("%w: size range [%d,%d]", ErrBadConfig, c.MinSize, c.MaxSize)
	case c.FreeRatio < 0 || c.FreeRatio > 1:
		return fmt.Errorf("%w: free ratio %v", ErrBadConfig, c.FreeRatio)
	case c.MaxLive < 0:
		return fmt.Errorf("%w: max live %d", ErrBadConfig, c.MaxLive)
	}
	for _, a := range c.Alignments {
		if a <= 0 || a&(a-1) != 0 {
			return fmt.Errorf("%w: alignment %d", ErrBadConfig, a)
		}
	}
	return nil
}

// Generate builds a workload from cfg. The same cfg always yields the same
// workload.
func Generate(cfg Config) (Workload, error) {
	if err := cfg.validate(); err != nil {
		return Workload{}, err
	}
	aligns := cfg.Alignments
	if len(aligns) == 0 {
		aligns = []int{8}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	w := Workload{Steps: make([]Step, 0, cfg.Steps)}
	var live []int

	for range cfg.Steps {
		mustFree := cfg.MaxLive > 0 && len(live) >= cfg.MaxLive
		if len(live) > 0 && (mustFree || rng.Float64() < cfg.FreeRatio) {
			i := rng.Intn(len(live))
			w.Steps = append(w.Steps, Step{Kind: KindFree, Slot: live[i]})
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
			continue
		}
		slot := w.Slots
		w.Slots++
		w.Steps = append(w.Steps, Step{
			Kind:  KindAlloc,
			Slot:  slot,
			Size:  cfg.MinSize + rng.Intn(cfg.MaxSize-cfg.MinSize+1),
			Align: aligns[rng.Intn(len(aligns))],
		})
		live = append(live, slot)
	}
	return w, nil
}

// Result summarizes one replay.
type Result struct {
	Allocs   int // Successful allocations
	Failed   int // Allocations that ran out of memory
	Frees    int // Frees issued
	Skipped  int // Frees of slots whose allocation failed
	PeakLive int // Most allocations live at once
}

// Replay runs w against a. Out-of-memory failures are counted, not
// returned; frees of failed slots are skipped. Any other error aborts.
// Allocations still live at the end are left in place.
func Replay(a alloc.Allocator, w Workload) (Result, error) {
	var res Result
	ptrs := make([]alloc.Ptr, w.Slots)
	live := 0

	for i, st := range w.Steps {
		switch st.Kind {
		case KindAlloc:
			p, _, err := a.Allocate(st.Size, st.Align)
			if errors.Is(err, alloc.ErrOutOfMemory) {
				res.Failed++
				continue
			}
			if err != nil {
				return res, fmt.Errorf("sim: step %d allocate(%d, %d): %w", i, st.Size, st.Align, err)
			}
			ptrs[st.Slot] = p
			res.Allocs++
			live++
			res.PeakLive = max(res.PeakLive, live)

		case KindFree:
			p := ptrs[st.Slot]
			if p == alloc.Nil {
				res.Skipped++
				continue
			}
			if err := a.Free(p); err != nil {
				return res, fmt.Errorf("sim: step %d free(slot %d): %w", i, st.Slot, err)
			}
			ptrs[st.Slot] = alloc.Nil
			res.Frees++
			live--

		default:
			return res, fmt.Errorf("%w: step %d has kind %d", ErrBadConfig, i, st.Kind)
		}
	}
	return res, nil
}
