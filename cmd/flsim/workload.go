package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/freelist/alloc"
	"github.com/joshuapare/freelist/sim"
)

var (
	wlConfig  = sim.DefaultConfig
	arenaSize int
)

// addWorkloadFlags registers the flags shared by run and compare.
func addWorkloadFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&arenaSize, "arena", 1<<20, "Arena size in bytes")
	f.IntVar(&wlConfig.Steps, "steps", sim.DefaultConfig.Steps, "Number of workload steps")
	f.IntVar(&wlConfig.MinSize, "min", sim.DefaultConfig.MinSize, "Smallest request in bytes")
	f.IntVar(&wlConfig.MaxSize, "max", sim.DefaultConfig.MaxSize, "Largest request in bytes")
	f.IntSliceVar(&wlConfig.Alignments, "align", sim.DefaultConfig.Alignments, "Alignments to draw from")
	f.Float64Var(&wlConfig.FreeRatio, "free-ratio", sim.DefaultConfig.FreeRatio, "Probability of a free step")
	f.IntVar(&wlConfig.MaxLive, "max-live", sim.DefaultConfig.MaxLive, "Force frees above this many live blocks (0 = unbounded)")
	f.Int64Var(&wlConfig.Seed, "seed", sim.DefaultConfig.Seed, "Random seed")
}

// resetWorkloadFlags restores flag-backed state to its defaults.
func resetWorkloadFlags() {
	wlConfig = sim.DefaultConfig
	wlConfig.Alignments = append([]int(nil), sim.DefaultConfig.Alignments...)
	arenaSize = 1 << 20
}

// replay builds a fresh allocator for policy and runs w on it. The caller
// closes the allocator.
func replay(policy alloc.Policy, w sim.Workload) (*alloc.FreeListAllocator, sim.Result, error) {
	fa, err := alloc.NewWithSize(arenaSize, allocConfig(policy))
	if err != nil {
		return nil, sim.Result{}, fmt.Errorf("failed to create allocator: %w", err)
	}
	res, err := sim.Replay(fa, w)
	if err != nil {
		fa.Close()
		return nil, res, err
	}
	if err := fa.Check(); err != nil {
		fa.Close()
		return nil, res, fmt.Errorf("free list check after replay: %w", err)
	}
	return fa, res, nil
}
