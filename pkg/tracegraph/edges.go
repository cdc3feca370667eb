package tracegraph

import (
	"github.com/jdziat/traceview-go/pkg/nodename"
)

// edgeSet collects edges while enforcing the rendering invariants at
// insertion time: no self-loops, nothing into the start node, nothing out
// of the end node, nothing out of a parser node, no duplicates.
type edgeSet struct {
	seen map[GraphEdge]struct{}
	list []GraphEdge
}

func newEdgeSet() *edgeSet {
	return &edgeSet{seen: make(map[GraphEdge]struct{})}
}

func (s *edgeSet) add(from, to string) {
	if from == "" || to == "" || from == to {
		return
	}
	if to == nodename.StartNodeLabel {
		return
	}
	if from == nodename.EndNodeLabel {
		return
	}
	if nodename.IsParserNodeName(from) {
		return
	}
	e := GraphEdge{From: from, To: to}
	if _, dup := s.seen[e]; dup {
		return
	}
	s.seen[e] = struct{}{}
	s.list = append(s.list, e)
}

// pruneEndEdges drops every edge into the end node except the one sourced
// from keep. Used to guarantee a single terminal edge.
func (s *edgeSet) pruneEndEdges(keep string) {
	kept := s.list[:0]
	for _, e := range s.list {
		if e.To == nodename.EndNodeLabel && e.From != keep {
			delete(s.seen, e)
			continue
		}
		kept = append(kept, e)
	}
	s.list = kept
}

// endEdgeSources returns the sources of all edges currently targeting the
// end node, in insertion order.
func (s *edgeSet) endEdgeSources() []string {
	var sources []string
	for _, e := range s.list {
		if e.To == nodename.EndNodeLabel {
			sources = append(sources, e.From)
		}
	}
	return sources
}
