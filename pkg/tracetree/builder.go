package tracetree

import (
	"time"

	"github.com/jdziat/traceview-go/pkg/nodename"
	"github.com/jdziat/traceview-go/pkg/types"
)

// Build derives the inspection tree for one trace from its flat
// observation collection. It is a total function: malformed relational
// data (dangling parents, missing timestamps, absent costs) degrades to
// documented fallbacks, never to an error.
//
// trace may be nil; the result is then always wrapped under a synthetic
// root. The input slice is not mutated.
func Build(trace *types.Trace, observations []*types.Observation, opts Options) *TraceUIData {
	rec := reconcile(observations, opts.MinLevel)

	// Phase 2: dependency registry. Children are appended in
	// chronological order, which fixes sibling order deterministically.
	children := make(map[string][]string, len(rec.ordered))
	rootIDs := make([]string, 0, 4)
	for _, o := range rec.ordered {
		if p := rec.parents[o.ID]; p == "" {
			rootIDs = append(rootIDs, o.ID)
		} else {
			children[p] = append(children[p], o.ID)
		}
	}

	// Breadth-first depth assignment from the roots.
	depth := make(map[string]int, len(rec.ordered))
	bfs := append(make([]string, 0, len(rec.ordered)), rootIDs...)
	for head := 0; head < len(bfs); head++ {
		id := bfs[head]
		for _, c := range children[id] {
			depth[c] = depth[id] + 1
			bfs = append(bfs, c)
		}
	}

	// In-degree for aggregation is the child count: a node finalizes only
	// after all of its children have.
	remaining := make(map[string]int, len(rec.ordered))
	work := make([]string, 0, len(rec.ordered))
	byID := make(map[string]*types.Observation, len(rec.ordered))
	for _, o := range rec.ordered {
		byID[o.ID] = o
		n := len(children[o.ID])
		remaining[o.ID] = n
		if n == 0 {
			work = append(work, o.ID)
		}
	}

	traceStart := earliestStart(trace, rec.ordered)

	// Phase 3: bottom-up finalization, Kahn-style with an index-based
	// queue. No recursion: depth of the trace never touches the stack.
	nodeMap := make(map[string]*TreeNode, len(rec.ordered))
	for head := 0; head < len(work); head++ {
		id := work[head]
		o := byID[id]
		node := newTreeNode(o, rec.parents[id], depth[id], traceStart, byID)

		var costSum float64
		var usageSum int
		hasCost, hasUsage := false, false
		if own, ok := o.OwnCost(); ok {
			costSum += own
			hasCost = true
		}
		if own, ok := ownUsage(o); ok {
			usageSum += own
			hasUsage = true
		}
		maxChildHeight := -1
		for _, cid := range children[id] {
			child := nodeMap[cid]
			node.Children = append(node.Children, child)
			if child.TotalCost != nil {
				costSum += *child.TotalCost
				hasCost = true
			}
			if child.TotalUsage != nil {
				usageSum += *child.TotalUsage
				hasUsage = true
			}
			if child.ChildrenDepth > maxChildHeight {
				maxChildHeight = child.ChildrenDepth
			}
		}
		if hasCost {
			c := costSum
			node.TotalCost = &c
		}
		if hasUsage {
			u := usageSum
			node.TotalUsage = &u
		}
		if len(node.Children) > 0 {
			node.ChildrenDepth = maxChildHeight + 1
		}
		nodeMap[id] = node

		if p := rec.parents[id]; p != "" {
			remaining[p]--
			if remaining[p] == 0 {
				work = append(work, p)
			}
		}
	}

	// Phase 4: assemble. Traces without a root observation type marker
	// get a synthetic wrapper so the UI always has a single anchor.
	roots := make([]*TreeNode, 0, len(rootIDs))
	for _, id := range rootIDs {
		roots = append(roots, nodeMap[id])
	}
	if trace == nil || trace.RootObservationType == "" {
		roots = []*TreeNode{wrapInSyntheticRoot(trace, roots, traceStart)}
	}

	data := &TraceUIData{
		Roots:                   roots,
		NodeMap:                 nodeMap,
		HiddenObservationsCount: rec.hidden,
	}
	data.SearchItems = flatten(roots, data)
	return data
}

// ownUsage mirrors Observation.OwnCost for token usage.
func ownUsage(o *types.Observation) (int, bool) {
	if o.TotalUsage != nil && *o.TotalUsage != 0 {
		return *o.TotalUsage, true
	}
	var sum int
	if o.InputUsage != nil {
		sum += *o.InputUsage
	}
	if o.OutputUsage != nil {
		sum += *o.OutputUsage
	}
	if sum != 0 {
		return sum, true
	}
	return 0, false
}

func newTreeNode(o *types.Observation, parentID string, nodeDepth int, traceStart time.Time, byID map[string]*types.Observation) *TreeNode {
	node := &TreeNode{
		ID:        o.ID,
		ParentID:  parentID,
		Name:      displayName(o),
		Type:      o.Type,
		Level:     o.Level,
		StartTime: o.StartTime,
		EndTime:   o.EndTime,
		Depth:     nodeDepth,
	}
	if !o.StartTime.IsZero() && !traceStart.IsZero() {
		node.StartTimeSinceTrace = o.StartTime.Sub(traceStart)
	}
	if parentID != "" {
		if parent, ok := byID[parentID]; ok && !parent.StartTime.IsZero() && !o.StartTime.IsZero() {
			node.StartTimeSinceParentStart = o.StartTime.Sub(parent.StartTime.Time)
		}
	}
	return node
}

// displayName renders the human-facing node label: parser names get the
// two-part turn label, legacy tool-result names get the compact rewrite,
// anything else passes through.
func displayName(o *types.Observation) string {
	if label, ok := nodename.FormatParserNodeName(o.Name, false); ok {
		return label
	}
	if o.Name == "" {
		return o.ID
	}
	return nodename.NormalizeToolResultNodeName(o.Name)
}

func earliestStart(trace *types.Trace, ordered []*types.Observation) time.Time {
	for _, o := range ordered {
		if !o.StartTime.IsZero() {
			return o.StartTime.Time
		}
	}
	if trace != nil && !trace.Timestamp.IsZero() {
		return trace.Timestamp.Time
	}
	return time.Time{}
}

func wrapInSyntheticRoot(trace *types.Trace, roots []*TreeNode, traceStart time.Time) *TreeNode {
	wrapper := &TreeNode{
		ID:       "trace",
		Name:     "Trace",
		Type:     SyntheticRootType,
		Depth:    -1,
		Children: roots,
	}
	if trace != nil {
		wrapper.ID = trace.ID
		if trace.Name != "" {
			wrapper.Name = trace.Name
		}
	}
	if !traceStart.IsZero() {
		wrapper.StartTime = types.Time{Time: traceStart}
	}
	var costSum float64
	var usageSum int
	hasCost, hasUsage := false, false
	maxChildHeight := -1
	for _, child := range roots {
		if child.TotalCost != nil {
			costSum += *child.TotalCost
			hasCost = true
		}
		if child.TotalUsage != nil {
			usageSum += *child.TotalUsage
			hasUsage = true
		}
		if child.ChildrenDepth > maxChildHeight {
			maxChildHeight = child.ChildrenDepth
		}
	}
	if hasCost {
		wrapper.TotalCost = &costSum
	}
	if hasUsage {
		wrapper.TotalUsage = &usageSum
	}
	if len(roots) > 0 {
		wrapper.ChildrenDepth = maxChildHeight + 1
	}
	return wrapper
}

// flatten produces the pre-order search list with an explicit stack and
// records the cost/duration maxima used for heatmap scaling.
func flatten(roots []*TreeNode, data *TraceUIData) []SearchItem {
	items := make([]SearchItem, 0, len(data.NodeMap)+1)
	stack := make([]*TreeNode, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		item := SearchItem{
			ID:        node.ID,
			Name:      node.Name,
			Type:      node.Type,
			Level:     node.Level,
			Depth:     node.Depth,
			TotalCost: node.TotalCost,
		}
		if !node.StartTime.IsZero() && !node.EndTime.IsZero() {
			item.Duration = node.EndTime.Sub(node.StartTime.Time)
		}
		if node.TotalCost != nil && *node.TotalCost > data.MaxTotalCost {
			data.MaxTotalCost = *node.TotalCost
		}
		if item.Duration > data.MaxDuration {
			data.MaxDuration = item.Duration
		}
		items = append(items, item)

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
	return items
}
