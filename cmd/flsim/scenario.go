package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/freelist/sim"
)

var (
	scenarioSpans []int
	scenarioNeed  int
	scenarioArena int
)

func init() {
	cmd := newScenarioCmd()
	cmd.Flags().IntSliceVar(&scenarioSpans, "blocks", []int{100, 70, 200}, "Spans of the free blocks, in address order")
	cmd.Flags().IntVar(&scenarioNeed, "need", 60, "Bytes the request needs, header included")
	cmd.Flags().IntVar(&scenarioArena, "arena", 1024, "Arena size in bytes")
	rootCmd.AddCommand(cmd)
}

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Show which free block each policy picks",
		Long: `The scenario command builds a free list with the given block spans
and issues one request per policy, showing the block each one chooses.

Example:
  flsim scenario
  flsim scenario --blocks 100,50,200 --need 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario()
		},
	}
	return cmd
}

func runScenario() error {
	policies, err := parsePolicies([]string{"first-fit", "best-fit"})
	if err != nil {
		return err
	}
	pr, err := printer()
	if err != nil {
		return err
	}

	var placements []sim.Placement
	for _, policy := range policies {
		pl, err := sim.PlacementScenario(policy, scenarioArena, scenarioSpans, scenarioNeed)
		if err != nil {
			return err
		}
		placements = append(placements, pl)
	}

	if jsonOut {
		return printJSON(placements)
	}
	if quiet {
		return nil
	}

	if err := pr.WriteFreeList(os.Stdout, placements[0].Free); err != nil {
		return err
	}
	printInfo("\nRequest needing %s bytes:\n", pr.Number(int64(scenarioNeed)))
	for _, pl := range placements {
		printInfo("  %-10s -> block at %s (%s bytes)\n", pl.Policy,
			pr.Number(int64(pl.Chosen.Offset)), pr.Number(int64(pl.Chosen.Size)))
	}
	return nil
}
