// Package types provides the core data types for traceview.
//
// This package contains the Trace and Observation records consumed by the
// tree and graph builders, plus the level ordering and the tolerant Time
// codec used on the wire. It carries no behavior beyond the data model and
// can be imported on its own.
package types
