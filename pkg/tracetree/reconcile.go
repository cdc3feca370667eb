package tracetree

import (
	"sort"
	"strings"
	"time"

	"github.com/jdziat/traceview-go/pkg/nodename"
	"github.com/jdziat/traceview-go/pkg/types"
)

// reconciled is the outcome of the filter/re-parent phase: the surviving
// observations in chronological order and the effective parent of each.
type reconciled struct {
	ordered []*types.Observation
	parents map[string]string // survivor id -> effective parent id, "" for roots
	hidden  int
}

// reconcile filters parser containers and below-threshold observations,
// then resolves each survivor's effective parent. Re-parenting rules apply
// in fixed priority order so behavior is reproducible rule-by-rule:
//
//  1. a parser tool-result leaf is re-attached under the most recently
//     seen node whose normalized name matches "<tool>.<index>";
//  2. the explicit parent reference, walked up the original (unfiltered)
//     chain past filtered-out ancestors, cycle-guarded;
//  3. a pending pre-tool marker claiming the matching tool invocation;
//  4. containment in a turn window (turn start to next turn start);
//  5. otherwise the observation is a root.
func reconcile(observations []*types.Observation, minLevel types.ObservationLevel) *reconciled {
	byID := make(map[string]*types.Observation, len(observations))
	for _, o := range observations {
		if _, dup := byID[o.ID]; !dup {
			byID[o.ID] = o
		}
	}

	ordered := make([]*types.Observation, 0, len(observations))
	seen := make(map[string]bool, len(observations))
	for _, o := range observations {
		if !seen[o.ID] {
			seen[o.ID] = true
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

	rec := &reconciled{parents: make(map[string]string, len(ordered))}
	surviving := make(map[string]bool, len(ordered))
	survivors := ordered[:0:0]
	for _, o := range ordered {
		if nodename.IsParserContainerNodeName(o.Name) {
			continue
		}
		if minLevel != "" && !o.Level.AtLeast(minLevel) {
			rec.hidden++
			continue
		}
		surviving[o.ID] = true
		survivors = append(survivors, o)
	}
	rec.ordered = survivors

	turns := collectTurns(survivors)

	lastByNorm := make(map[string]string)
	pendingPre := make(map[string]string)
	for _, o := range survivors {
		parent := ""
		norm := nodename.NormalizeToolResultNodeName(o.Name)

		if target, ok := toolResultTarget(o.Name); ok {
			if id, found := lastByNorm[target]; found && id != o.ID {
				parent = id
			}
		}
		if parent == "" {
			parent = resolveParent(o, byID, surviving)
		}
		if parent == "" {
			if preID, ok := pendingPre[norm]; ok && preID != o.ID {
				parent = preID
				delete(pendingPre, norm)
			}
		}
		if parent == "" {
			if _, isTurn := nodename.ParseTurnMarker(o.Name); !isTurn {
				if turnID, ok := turns.containing(o.StartTime.Time); ok && turnID != o.ID {
					parent = turnID
				}
			}
		}

		rec.parents[o.ID] = parent
		lastByNorm[norm] = o.ID
		if key, ok := preToolKey(o.Name); ok {
			pendingPre[key] = o.ID
		}
	}

	breakCycles(survivors, rec.parents)
	return rec
}

// toolResultTarget extracts the "<tool>.<index>" attachment key from a
// parser tool-result name.
func toolResultTarget(raw string) (string, bool) {
	parsed, ok := nodename.ParseParserNodeName(raw)
	if !ok || len(parsed.Suffix) != 3 || parsed.Suffix[0] != "tool_result" {
		return "", false
	}
	return parsed.Suffix[1] + "." + parsed.Suffix[2], true
}

// preToolKey extracts the "<tool>.<index>" key a pre-tool marker claims.
func preToolKey(raw string) (string, bool) {
	parsed, ok := nodename.ParseParserNodeName(raw)
	if !ok || len(parsed.Suffix) != 2 {
		return "", false
	}
	tool, isPre := strings.CutPrefix(parsed.Suffix[0], "pre_")
	if !isPre {
		return "", false
	}
	return tool + "." + parsed.Suffix[1], true
}

// resolveParent walks the original parent chain until it reaches a
// surviving ancestor or runs out. The walk is cycle-guarded: a repeated id
// terminates it.
func resolveParent(o *types.Observation, byID map[string]*types.Observation, surviving map[string]bool) string {
	visited := map[string]bool{o.ID: true}
	p := o.ParentObservationID
	for p != "" && !visited[p] {
		if surviving[p] {
			return p
		}
		visited[p] = true
		ancestor, ok := byID[p]
		if !ok {
			return ""
		}
		p = ancestor.ParentObservationID
	}
	return ""
}

// breakCycles cuts one parent edge per cycle so the parent relation forms
// a forest. Walks are iterative with a three-state color map.
func breakCycles(survivors []*types.Observation, parents map[string]string) {
	const (
		unvisited = 0
		onPath    = 1
		settled   = 2
	)
	state := make(map[string]int, len(survivors))
	path := make([]string, 0, 16)
	for _, o := range survivors {
		if state[o.ID] != unvisited {
			continue
		}
		path = path[:0]
		cur := o.ID
		for cur != "" && state[cur] == unvisited {
			state[cur] = onPath
			path = append(path, cur)
			cur = parents[cur]
		}
		if cur != "" && state[cur] == onPath {
			// the chain re-entered the current path: cut the closing edge
			parents[path[len(path)-1]] = ""
		}
		for _, id := range path {
			state[id] = settled
		}
	}
}

// turnWindows indexes turn-marker observations by start time. A turn's
// window runs from its own start to the next turn's start; the turn's own
// end timestamp is not trusted as a boundary.
type turnWindows struct {
	ids    []string
	starts []int64 // unix nanos, ascending
}

func collectTurns(survivors []*types.Observation) *turnWindows {
	tw := &turnWindows{}
	for _, o := range survivors {
		if _, ok := nodename.ParseTurnMarker(o.Name); !ok {
			continue
		}
		if o.StartTime.IsZero() {
			continue
		}
		tw.ids = append(tw.ids, o.ID)
		tw.starts = append(tw.starts, o.StartTime.UnixNano())
	}
	return tw
}

// containing returns the id of the turn whose window holds t.
func (tw *turnWindows) containing(t time.Time) (string, bool) {
	if len(tw.ids) == 0 || t.IsZero() {
		return "", false
	}
	ns := t.UnixNano()
	// binary search for the last turn starting at or before t
	lo, hi := 0, len(tw.starts)
	for lo < hi {
		mid := (lo + hi) / 2
		if tw.starts[mid] <= ns {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return "", false
	}
	return tw.ids[lo-1], true
}
