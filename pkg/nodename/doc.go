// Package nodename parses and normalizes the synthetic node names emitted
// by the request/response parser stage of an instrumented agent pipeline.
//
// All transforms in this package are pure, stateless, and total: unmatched
// input is returned unchanged, or signaled with a false second return for
// the functions that can decline. Nothing here ever fails.
package nodename
