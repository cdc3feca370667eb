// Package tracegraph synthesizes a small directed execution graph from a
// flat observation collection, suitable for layout and rendering.
//
// Like the tree builder, everything here is a synchronous pure function of
// its input: no shared state, no errors, explicit work lists instead of
// recursion. Two construction paths exist and are chosen solely by the
// presence of turn-marker nodes: linear per-turn chains when markers are
// present, and a step-bucketed bipartite join when they are not.
package tracegraph
