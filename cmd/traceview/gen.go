package main

import (
	"github.com/spf13/cobra"

	"github.com/jdziat/traceview-go/pkg/fixture"
)

func newGenCmd() *cobra.Command {
	var (
		seed     int64
		turns    int
		tools    int
		failures int
		output   string
		pretty   bool
	)
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a synthetic trace bundle for testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, obs := fixture.Generate(fixture.Options{
				Seed:         seed,
				Turns:        turns,
				ToolsPerTurn: tools,
				Failures:     failures,
			})
			return writeJSON(output, &Bundle{Trace: trace, Observations: obs}, pretty)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "generation seed")
	cmd.Flags().IntVar(&turns, "turns", 3, "number of turns")
	cmd.Flags().IntVar(&tools, "tools", 2, "tool invocations per turn")
	cmd.Flags().IntVar(&failures, "failures", 0, "failure markers to insert")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}
