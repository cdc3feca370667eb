package tracegraph

import (
	"sort"
	"time"

	"github.com/jdziat/traceview-go/pkg/nodename"
)

// connectTurnChains is the primary edge-construction path, used when the
// trace contains turn-marker nodes. Each turn window (the turn's start to
// the next turn's start; the turn's own end timestamp is not trusted) is
// rendered as a linear chain ordered by first occurrence, with the marker
// at the head. Consecutive turns connect tail to marker, and only the
// globally-last tail reaches the synthetic end node.
func (b *graphBuilder) connectTurnChains() {
	b.ensureTerminals()

	turns := make([]*nodeInfo, 0, 8)
	for _, label := range b.order {
		if b.nodes[label].kind == nodename.KindTurnMarker {
			turns = append(turns, b.nodes[label])
		}
	}
	sort.SliceStable(turns, func(i, j int) bool {
		if !turns[i].firstSeen.Equal(turns[j].firstSeen) {
			return turns[i].firstSeen.Before(turns[j].firstSeen)
		}
		ti, _ := nodename.ParseTurnMarker(turns[i].label)
		tj, _ := nodename.ParseTurnMarker(turns[j].label)
		return ti < tj
	})

	starts := make([]int64, len(turns))
	for i, t := range turns {
		starts[i] = t.firstSeen.UnixNano()
	}
	// windowOf returns the index of the turn whose window contains t, or
	// -1 when t precedes the first turn or is unknown. The last window is
	// open-ended.
	windowOf := func(t time.Time) int {
		if t.IsZero() {
			return -1
		}
		ns := t.UnixNano()
		idx := sort.Search(len(starts), func(i int) bool { return starts[i] > ns })
		return idx - 1
	}

	members := make([][]*nodeInfo, len(turns))
	leaves := make([][]*nodeInfo, len(turns))
	var strayLeaves []*nodeInfo
	for _, label := range b.order {
		info := b.nodes[label]
		switch info.kind {
		case nodename.KindPlain, nodename.KindKernel, nodename.KindFailure:
			if w := windowOf(info.firstSeen); w >= 0 {
				members[w] = append(members[w], info)
			}
		case nodename.KindParserLeaf:
			if w := windowOf(info.firstSeen); w >= 0 {
				leaves[w] = append(leaves[w], info)
			} else {
				strayLeaves = append(strayLeaves, info)
			}
		}
	}

	byFirstSeen := func(infos []*nodeInfo) {
		sort.SliceStable(infos, func(i, j int) bool {
			if !infos[i].firstSeen.Equal(infos[j].firstSeen) {
				return infos[i].firstSeen.Before(infos[j].firstSeen)
			}
			return infos[i].label < infos[j].label
		})
	}

	tails := make([]string, len(turns))
	for w, turn := range turns {
		byFirstSeen(members[w])
		prev := turn.label
		for _, m := range members[w] {
			b.edges.add(prev, m.label)
			prev = m.label
		}
		tails[w] = prev
	}

	for w := 0; w+1 < len(turns); w++ {
		b.edges.add(tails[w], turns[w+1].label)
	}

	// Parser leaves hang off their semantic parent, never off the chain.
	for w := range turns {
		byFirstSeen(leaves[w])
		for _, leaf := range leaves[w] {
			b.attachParserLeaf(leaf.label, recentKernel(members[w], leaf.firstSeen))
		}
	}
	for _, leaf := range strayLeaves {
		b.attachParserLeaf(leaf.label, "")
	}

	if len(turns) > 0 {
		head := turns[0].label
		if ts := b.traceStartLabel(); ts != "" {
			b.edges.add(nodename.StartNodeLabel, ts)
			b.edges.add(ts, head)
		} else {
			b.edges.add(nodename.StartNodeLabel, head)
		}
		b.edges.add(tails[len(tails)-1], nodename.EndNodeLabel)
	}
}

// recentKernel returns the kernel member most recently seen at or before
// t, falling back to the window's last kernel, or "" when the window has
// none.
func recentKernel(members []*nodeInfo, t time.Time) string {
	best := ""
	last := ""
	for _, m := range members {
		if m.kind != nodename.KindKernel {
			continue
		}
		last = m.label
		if !t.IsZero() && !m.firstSeen.After(t) {
			best = m.label
		}
	}
	if best != "" {
		return best
	}
	return last
}

func (b *graphBuilder) traceStartLabel() string {
	for _, label := range b.order {
		if b.nodes[label].kind == nodename.KindTraceStart {
			return label
		}
	}
	return ""
}
