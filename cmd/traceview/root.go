package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagBaseURL string
	flagVerbose bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "traceview",
		Short:         "Derive inspection views from agent execution traces",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
			if flagVerbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.InfoLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default traceview.yaml)")
	root.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "API base URL (overrides config and region)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newTreeCmd())
	root.AddCommand(newGraphCmd())
	root.AddCommand(newFetchCmd())
	root.AddCommand(newGenCmd())
	return root
}
