package tracegraph

import (
	"sort"

	"github.com/jdziat/traceview-go/pkg/nodename"
)

// connectSteps is the fallback edge-construction path, used when no turn
// markers exist: a full bipartite join between each pair of consecutive
// step buckets, with the final step feeding the synthetic end node. The
// denser result relative to the turn-chain path is deliberate graceful
// degradation, not a bug to reconcile.
func (b *graphBuilder) connectSteps() {
	b.ensureTerminals()

	buckets := make(map[int][]*nodeInfo)
	for _, label := range b.order {
		info := b.nodes[label]
		switch info.kind {
		case nodename.KindStart, nodename.KindEnd:
			continue
		case nodename.KindParserLeaf:
			// forced-parent heuristic from bucketing: tool results
			// attach to their invocation even without turn windows
			b.attachParserLeaf(label, "")
			continue
		}
		if info.hasStep {
			buckets[info.firstStep] = append(buckets[info.firstStep], info)
		}
	}
	if len(buckets) == 0 {
		return
	}

	steps := make([]int, 0, len(buckets))
	for step := range buckets {
		steps = append(steps, step)
	}
	sort.Ints(steps)
	for _, step := range steps {
		infos := buckets[step]
		sort.SliceStable(infos, func(i, j int) bool {
			if !infos[i].firstSeen.Equal(infos[j].firstSeen) {
				return infos[i].firstSeen.Before(infos[j].firstSeen)
			}
			return infos[i].label < infos[j].label
		})
	}

	for _, first := range buckets[steps[0]] {
		b.edges.add(nodename.StartNodeLabel, first.label)
	}
	for i := 0; i+1 < len(steps); i++ {
		for _, from := range buckets[steps[i]] {
			for _, to := range buckets[steps[i+1]] {
				b.edges.add(from.label, to.label)
			}
		}
	}
	for _, last := range buckets[steps[len(steps)-1]] {
		b.edges.add(last.label, nodename.EndNodeLabel)
	}
}
