package tracegraph

import (
	"fmt"
	"sort"
	"time"

	"github.com/jdziat/traceview-go/pkg/nodename"
	"github.com/jdziat/traceview-go/pkg/types"
)

// nodeInfo is the per-node accumulator used during construction.
type nodeInfo struct {
	label     string // normalized, the graph node id
	firstRaw  string // first raw variant that mapped here
	kind      nodename.NodeKind
	firstSeen time.Time
	firstStep int
	hasStep   bool
	obsIDs    []string
	level     types.ObservationLevel
}

// Build synthesizes the execution flow graph from a flat observation
// collection. Observations without a node label are ignored. The input
// slice is not mutated, and the output is deterministic regardless of
// input order.
func Build(observations []*types.Observation) *StepGraphData {
	b := &graphBuilder{
		nodes: make(map[string]*nodeInfo),
		edges: newEdgeSet(),
	}
	b.bucket(observations)

	if b.hasTurnMarkers() {
		b.connectTurnChains()
	} else {
		b.connectSteps()
	}

	return b.finish()
}

type graphBuilder struct {
	nodes map[string]*nodeInfo
	order []string // normalized labels in first-seen insertion order
	edges *edgeSet
}

// bucket groups observations by node label, disambiguates generic failure
// markers, prunes parser containers, and merges raw labels that normalize
// to the same graph node.
func (b *graphBuilder) bucket(observations []*types.Observation) {
	ordered := make([]*types.Observation, 0, len(observations))
	for _, o := range observations {
		if _, ok := o.NodeLabel(); ok {
			ordered = append(ordered, o)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := ordered[i].StartTime.Time, ordered[j].StartTime.Time
		if ti.Equal(tj) {
			return ordered[i].ID < ordered[j].ID
		}
		return ti.Before(tj)
	})

	failureSeq := 0
	for _, o := range ordered {
		raw, _ := o.NodeLabel()

		// Generic failure markers get stable sequential labels so
		// repeated failures never collapse into one node.
		if raw == nodename.FailureNodeLabel {
			failureSeq++
			raw = fmt.Sprintf("%s.%d", nodename.FailureNodeLabel, failureSeq)
		}

		// Parser containers are scaffolding; their buckets and
		// observation mappings are dropped outright.
		if nodename.IsParserContainerNodeName(raw) {
			continue
		}

		label := nodename.NormalizeParserNodeNameForGraph(raw)
		info, ok := b.nodes[label]
		if !ok {
			info = &nodeInfo{
				label:    label,
				firstRaw: raw,
				kind:     nodename.Classify(label),
				level:    o.Level,
			}
			b.nodes[label] = info
			b.order = append(b.order, label)
		}
		if info.firstSeen.IsZero() || (!o.StartTime.IsZero() && o.StartTime.Before(info.firstSeen)) {
			info.firstSeen = o.StartTime.Time
		}
		if o.Step != nil && (!info.hasStep || *o.Step < info.firstStep) {
			info.firstStep = *o.Step
			info.hasStep = true
		}
		info.level = types.MaxLevel(info.level, o.Level)
		if info.kind != nodename.KindStart && info.kind != nodename.KindEnd {
			info.obsIDs = append(info.obsIDs, o.ID)
		}
	}
}

func (b *graphBuilder) hasTurnMarkers() bool {
	for _, label := range b.order {
		if b.nodes[label].kind == nodename.KindTurnMarker {
			return true
		}
	}
	return false
}

// attachParserLeaf wires a parser leaf under its semantic parent: the
// matching "<tool>.<index>" node when one exists, else the supplied
// fallback (the most recent kernel node in the same turn window). Parser
// leaves receive edges, never source them.
func (b *graphBuilder) attachParserLeaf(leaf string, fallback string) {
	if target, ok := nodename.ParserLeafTarget(leaf); ok {
		if _, exists := b.nodes[target]; exists {
			b.edges.add(target, leaf)
			return
		}
	}
	if fallback != "" {
		b.edges.add(fallback, leaf)
	}
}

// ensureTerminals guarantees the synthetic start and end nodes exist.
func (b *graphBuilder) ensureTerminals() {
	for _, label := range []string{nodename.StartNodeLabel, nodename.EndNodeLabel} {
		if _, ok := b.nodes[label]; !ok {
			b.nodes[label] = &nodeInfo{label: label, kind: nodename.Classify(label)}
			b.order = append(b.order, label)
		}
	}
}

// finish enforces the single-terminal-edge guarantee and produces the
// deterministic output structures.
func (b *graphBuilder) finish() *StepGraphData {
	// At most one edge may target the end node. Keep the source whose
	// first occurrence is latest; that is the globally-last chain tail
	// in the turn path and the latest final-step node in the fallback.
	sources := b.edges.endEdgeSources()
	if len(sources) > 1 {
		keep := sources[0]
		for _, s := range sources[1:] {
			si, ki := b.nodes[s], b.nodes[keep]
			if si == nil || ki == nil {
				continue
			}
			if si.firstSeen.After(ki.firstSeen) ||
				(si.firstSeen.Equal(ki.firstSeen) && s > keep) {
				keep = s
			}
		}
		b.edges.pruneEndEdges(keep)
	}

	labels := append([]string(nil), b.order...)
	sort.SliceStable(labels, func(i, j int) bool {
		a, z := b.nodes[labels[i]], b.nodes[labels[j]]
		if ra, rz := terminalRank(a.kind), terminalRank(z.kind); ra != rz {
			return ra < rz
		}
		if !a.firstSeen.Equal(z.firstSeen) {
			return a.firstSeen.Before(z.firstSeen)
		}
		return a.label < z.label
	})

	out := &StepGraphData{
		NodeToObservations: make(map[string][]string, len(labels)),
	}
	for _, label := range labels {
		info := b.nodes[label]
		out.Graph.Nodes = append(out.Graph.Nodes, GraphNode{
			ID:    info.label,
			Label: displayLabel(info),
			Type:  info.kind.String(),
			Title: severityTitle(info.level),
		})
		if len(info.obsIDs) > 0 {
			out.NodeToObservations[label] = dedupe(info.obsIDs)
		}
	}

	edges := append([]GraphEdge(nil), b.edges.list...)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	out.Graph.Edges = edges
	return out
}

// terminalRank pins the start node to the front of the node list and the
// end node to the back.
func terminalRank(kind nodename.NodeKind) int {
	switch kind {
	case nodename.KindStart:
		return 0
	case nodename.KindEnd:
		return 2
	default:
		return 1
	}
}

func displayLabel(info *nodeInfo) string {
	switch info.kind {
	case nodename.KindStart:
		return "Start"
	case nodename.KindEnd:
		return "End"
	case nodename.KindTraceStart:
		return "Trace start"
	case nodename.KindTurnMarker:
		if turn, ok := nodename.ParseTurnMarker(info.label); ok {
			return fmt.Sprintf("Turn %d", turn)
		}
	}
	if label, ok := nodename.FormatParserNodeName(info.firstRaw, false); ok {
		return label
	}
	return info.label
}

func severityTitle(level types.ObservationLevel) string {
	if level.Rank() > types.ObservationLevelDefault.Rank() {
		return level.String()
	}
	return ""
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
