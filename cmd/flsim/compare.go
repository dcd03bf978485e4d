package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/freelist/report"
	"github.com/joshuapare/freelist/sim"
)

var comparePolicies []string

func init() {
	cmd := newCompareCmd()
	addWorkloadFlags(cmd)
	cmd.Flags().StringSliceVar(&comparePolicies, "policies", []string{"first-fit", "best-fit"},
		"Policies to compare")
	rootCmd.AddCommand(cmd)
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Replay the same workload under each policy",
		Long: `The compare command generates one workload and replays it on a
separate arena per policy, then prints the results side by side.

Example:
  flsim compare
  flsim compare --arena 262144 --max 8192 --seed 7
  flsim compare --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare()
		},
	}
	return cmd
}

type compareEntry struct {
	Result   sim.Result      `json:"result"`
	Snapshot report.Snapshot `json:"snapshot"`
}

func runCompare() error {
	policies, err := parsePolicies(comparePolicies)
	if err != nil {
		return err
	}
	pr, err := printer()
	if err != nil {
		return err
	}

	w, err := sim.Generate(wlConfig)
	if err != nil {
		return err
	}

	entries := make([]compareEntry, 0, len(policies))
	snaps := make([]report.Snapshot, 0, len(policies))
	for _, policy := range policies {
		printVerbose("Replaying %d steps with %s\n", len(w.Steps), policy)
		fa, res, err := replay(policy, w)
		if err != nil {
			return err
		}
		snap := report.Capture(fa, false)
		fa.Close()
		entries = append(entries, compareEntry{Result: res, Snapshot: snap})
		snaps = append(snaps, snap)
	}

	if jsonOut {
		return printJSON(entries)
	}
	if quiet {
		return nil
	}
	printInfo("Workload: %s steps, sizes %s-%s, seed %d\n\n",
		pr.Number(int64(len(w.Steps))), pr.Number(int64(wlConfig.MinSize)),
		pr.Number(int64(wlConfig.MaxSize)), wlConfig.Seed)
	return pr.WriteComparison(os.Stdout, snaps)
}
