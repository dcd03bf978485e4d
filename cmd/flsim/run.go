package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/joshuapare/freelist/alloc"
	"github.com/joshuapare/freelist/report"
	"github.com/joshuapare/freelist/sim"
)

var (
	runPolicy string
	runBlocks bool
	runMap    bool
)

func init() {
	cmd := newRunCmd()
	addWorkloadFlags(cmd)
	cmd.Flags().StringVar(&runPolicy, "policy", "first-fit", "Placement policy (first-fit, best-fit)")
	cmd.Flags().BoolVar(&runBlocks, "blocks", false, "List the free blocks left after the run")
	cmd.Flags().BoolVar(&runMap, "map", false, "Draw the arena occupancy map")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a generated workload with one policy",
		Long: `The run command generates a workload from the given seed and size
range, replays it on a fresh arena and prints the allocator statistics.

Example:
  flsim run --policy best-fit --steps 50000
  flsim run --arena 65536 --max 4096 --map
  flsim run --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun()
		},
	}
	return cmd
}

type runOutput struct {
	Result   sim.Result      `json:"result"`
	Snapshot report.Snapshot `json:"snapshot"`
}

func runRun() error {
	policy, err := alloc.ParsePolicy(runPolicy)
	if err != nil {
		return err
	}
	pr, err := printer()
	if err != nil {
		return err
	}

	printVerbose("Generating %d steps (seed %d)\n", wlConfig.Steps, wlConfig.Seed)
	w, err := sim.Generate(wlConfig)
	if err != nil {
		return err
	}

	fa, res, err := replay(policy, w)
	if err != nil {
		return err
	}
	defer fa.Close()

	snap := report.Capture(fa, runBlocks || jsonOut)
	if jsonOut {
		return printJSON(runOutput{Result: res, Snapshot: snap})
	}
	if quiet {
		return nil
	}

	printInfo("Workload: %s allocations, %s failed, %s frees, peak %s live\n\n",
		pr.Number(int64(res.Allocs)), pr.Number(int64(res.Failed)),
		pr.Number(int64(res.Frees)), pr.Number(int64(res.PeakLive)))
	if err := pr.WriteSummary(os.Stdout, snap); err != nil {
		return err
	}
	if runBlocks {
		printInfo("\n")
		if err := pr.WriteFreeList(os.Stdout, snap.FreeBlocks); err != nil {
			return err
		}
	}
	if runMap {
		printInfo("\n%s\n", renderMap(slices.Collect(fa.FreeBlocks()), fa.Size(), mapWidth, mapRows))
	}
	return nil
}

// parsePolicies parses a list of policy names, rejecting duplicates.
func parsePolicies(names []string) ([]alloc.Policy, error) {
	out := make([]alloc.Policy, 0, len(names))
	for _, name := range names {
		p, err := alloc.ParsePolicy(name)
		if err != nil {
			return nil, err
		}
		if slices.Contains(out, p) {
			return nil, fmt.Errorf("policy %s listed twice", p)
		}
		out = append(out, p)
	}
	return out, nil
}
