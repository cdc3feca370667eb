// Package tracetree builds a cost/usage-aggregated hierarchy from a flat
// observation collection for drill-down inspection.
//
// The builder is a synchronous pure function: it never errors, never
// recurses (every traversal uses an explicit work list, so stack usage is
// bounded regardless of trace depth), and treats malformed relational data
// as degenerate-but-valid input handled by fixed fallback rules.
package tracetree
