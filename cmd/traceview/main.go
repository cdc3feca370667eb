// Command traceview derives inspection views (aggregated tree, execution
// graph) from exported or fetched trace data.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
