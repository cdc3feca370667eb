package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jdziat/traceview-go/pkg/tracegraph"
)

func newGraphCmd() *cobra.Command {
	var (
		input   string
		traceID string
		output  string
		pretty  bool
	)
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build the execution flow graph for a trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := loadBundle(cmd.Context(), input, traceID)
			if err != nil {
				return err
			}
			data := tracegraph.Build(bundle.Observations)
			log.WithFields(log.Fields{
				"nodes": len(data.Graph.Nodes),
				"edges": len(data.Graph.Edges),
			}).Debug("graph built")
			return writeJSON(output, data, pretty)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "bundle JSON file (\"-\" for stdin)")
	cmd.Flags().StringVar(&traceID, "trace-id", "", "fetch this trace from the API instead")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}
