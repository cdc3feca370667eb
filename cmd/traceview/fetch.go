package main

import (
	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	var (
		traceID string
		output  string
		pretty  bool
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a trace and its observations into a bundle file",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := fetchBundle(cmd.Context(), traceID)
			if err != nil {
				return err
			}
			return writeJSON(output, bundle, pretty)
		},
	}
	cmd.Flags().StringVar(&traceID, "trace-id", "", "trace to fetch (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.MarkFlagRequired("trace-id")
	return cmd
}
