package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jdziat/traceview-go/pkg/tracetree"
	"github.com/jdziat/traceview-go/pkg/types"
)

func newTreeCmd() *cobra.Command {
	var (
		input    string
		traceID  string
		output   string
		minLevel string
		pretty   bool
	)
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Build the aggregated inspection tree for a trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := loadBundle(cmd.Context(), input, traceID)
			if err != nil {
				return err
			}
			opts := tracetree.Options{}
			if minLevel != "" {
				opts.MinLevel = types.ObservationLevel(minLevel)
			}
			data := tracetree.Build(bundle.Trace, bundle.Observations, opts)
			log.WithFields(log.Fields{
				"nodes":  len(data.NodeMap),
				"hidden": data.HiddenObservationsCount,
			}).Debug("tree built")
			return writeJSON(output, data, pretty)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "bundle JSON file (\"-\" for stdin)")
	cmd.Flags().StringVar(&traceID, "trace-id", "", "fetch this trace from the API instead")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&minLevel, "min-level", "", "hide observations below this level (DEBUG|DEFAULT|WARNING|ERROR)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}
