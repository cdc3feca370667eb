package tracetree

import (
	"time"

	"github.com/jdziat/traceview-go/pkg/types"
)

// SyntheticRootType is the type carried by the synthetic wrapper node that
// groups a trace's roots when the trace is not events-rooted.
const SyntheticRootType types.ObservationType = "TRACE"

// TreeNode is one node of the derived inspection tree. Nodes are built
// once per Build call and are immutable afterwards; each node has exactly
// one parent (or is a root) and an ordered child list.
type TreeNode struct {
	ID       string                 `json:"id"`
	ParentID string                 `json:"parentId,omitempty"`
	Name     string                 `json:"name"`
	Type     types.ObservationType  `json:"type"`
	Level    types.ObservationLevel `json:"level,omitempty"`

	StartTime types.Time `json:"startTime,omitempty"`
	EndTime   types.Time `json:"endTime,omitempty"`

	// StartTimeSinceTrace and StartTimeSinceParentStart are wall-clock
	// offsets used by waterfall rendering.
	StartTimeSinceTrace       time.Duration `json:"startTimeSinceTrace"`
	StartTimeSinceParentStart time.Duration `json:"startTimeSinceParentStart"`

	// TotalCost is this node's own cost plus the sum of all descendant
	// costs. Nil when neither this node nor any descendant reported one.
	TotalCost *float64 `json:"totalCost,omitempty"`

	// TotalUsage aggregates token usage the same way.
	TotalUsage *int `json:"totalUsage,omitempty"`

	// Depth is the distance from the nearest root. Roots are 0; the
	// synthetic wrapper root is -1 so its children start at 0.
	Depth int `json:"depth"`

	// ChildrenDepth is the height of the subtree rooted here (0 for
	// leaves).
	ChildrenDepth int `json:"childrenDepth"`

	Children []*TreeNode `json:"children,omitempty"`
}

// SearchItem is one entry of the pre-order flattened tree used for search
// and heatmap scaling.
type SearchItem struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Type      types.ObservationType   `json:"type"`
	Level     types.ObservationLevel  `json:"level,omitempty"`
	Depth     int                     `json:"depth"`
	TotalCost *float64                `json:"totalCost,omitempty"`
	Duration  time.Duration           `json:"duration"`
}

// TraceUIData is the tree builder output.
type TraceUIData struct {
	// Roots holds the top-level nodes: either the trace's real roots
	// (events-rooted traces) or a single synthetic wrapper.
	Roots []*TreeNode `json:"roots"`

	// NodeMap indexes every surviving observation's node by id.
	NodeMap map[string]*TreeNode `json:"nodeMap"`

	// SearchItems is the pre-order flattening of Roots.
	SearchItems []SearchItem `json:"searchItems"`

	// HiddenObservationsCount counts observations removed by the level
	// filter.
	HiddenObservationsCount int `json:"hiddenObservationsCount"`

	// MaxTotalCost and MaxDuration are the maxima across all nodes,
	// propagated for relative (heatmap) scaling.
	MaxTotalCost float64       `json:"maxTotalCost"`
	MaxDuration  time.Duration `json:"maxDuration"`
}

// Options controls a Build call.
type Options struct {
	// MinLevel drops observations below this severity. The zero value
	// keeps everything.
	MinLevel types.ObservationLevel
}
