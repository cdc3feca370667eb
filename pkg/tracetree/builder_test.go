package tracetree

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/traceview-go/pkg/types"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) types.Time {
	return types.Time{Time: base.Add(time.Duration(ms) * time.Millisecond)}
}

func obs(id, name string, startMs int, parentID string) *types.Observation {
	return &types.Observation{
		ID:                  id,
		Name:                name,
		Type:                types.ObservationTypeSpan,
		StartTime:           at(startMs),
		Level:               types.ObservationLevelDefault,
		ParentObservationID: parentID,
	}
}

func withCost(o *types.Observation, total float64) *types.Observation {
	o.TotalCost = &total
	return o
}

func TestBuildAggregatesCostsBottomUp(t *testing.T) {
	in := float64(0.3)
	out := float64(0.2)
	root := obs("root", "agent", 0, "")
	mid := obs("mid", "step", 10, "root")
	mid.InputCost = &in
	mid.OutputCost = &out
	leaf := withCost(obs("leaf", "generation", 20, "mid"), 2.0)

	data := Build(nil, []*types.Observation{root, mid, leaf}, Options{})

	require.Len(t, data.Roots, 1) // synthetic wrapper
	wrapper := data.Roots[0]
	assert.Equal(t, -1, wrapper.Depth)
	require.NotNil(t, wrapper.TotalCost)
	assert.InDelta(t, 2.5, *wrapper.TotalCost, 1e-9)

	rootNode := data.NodeMap["root"]
	require.NotNil(t, rootNode)
	assert.Equal(t, 0, rootNode.Depth)
	require.NotNil(t, rootNode.TotalCost)
	assert.InDelta(t, 2.5, *rootNode.TotalCost, 1e-9)

	midNode := data.NodeMap["mid"]
	require.NotNil(t, midNode.TotalCost)
	assert.InDelta(t, 2.5, *midNode.TotalCost, 1e-9)
	assert.Equal(t, 1, midNode.Depth)
	assert.Equal(t, 1, midNode.ChildrenDepth)

	leafNode := data.NodeMap["leaf"]
	require.NotNil(t, leafNode.TotalCost)
	assert.InDelta(t, 2.0, *leafNode.TotalCost, 1e-9)
	assert.Equal(t, 0, leafNode.ChildrenDepth)
	assert.Equal(t, 2, leafNode.Depth)

	assert.Equal(t, 2, rootNode.ChildrenDepth)
	assert.InDelta(t, 2.5, data.MaxTotalCost, 1e-9)
}

func TestBuildNoCostStaysAbsent(t *testing.T) {
	data := Build(nil, []*types.Observation{
		obs("a", "agent", 0, ""),
		obs("b", "step", 10, "a"),
	}, Options{})

	assert.Nil(t, data.NodeMap["a"].TotalCost)
	assert.Nil(t, data.NodeMap["b"].TotalCost)
	assert.Nil(t, data.Roots[0].TotalCost)
}

func TestBuildEventsRootedSkipsSyntheticRoot(t *testing.T) {
	trace := &types.Trace{ID: "t1", RootObservationType: types.ObservationTypeSpan}
	data := Build(trace, []*types.Observation{
		obs("a", "first", 0, ""),
		obs("b", "second", 10, ""),
	}, Options{})

	require.Len(t, data.Roots, 2)
	assert.Equal(t, "a", data.Roots[0].ID)
	assert.Equal(t, "b", data.Roots[1].ID)
	assert.Equal(t, 0, data.Roots[0].Depth)
}

func TestBuildEmptyInput(t *testing.T) {
	data := Build(&types.Trace{ID: "t1"}, nil, Options{})
	require.Len(t, data.Roots, 1)
	assert.Empty(t, data.Roots[0].Children)
	assert.Empty(t, data.NodeMap)

	rooted := Build(&types.Trace{ID: "t1", RootObservationType: types.ObservationTypeSpan}, nil, Options{})
	assert.Empty(t, rooted.Roots)
}

func TestBuildReparentsThroughFilteredAncestors(t *testing.T) {
	// b and c are hidden by the level filter; d must climb two hops to a.
	a := obs("a", "agent", 0, "")
	b := obs("b", "debug-1", 10, "a")
	b.Level = types.ObservationLevelDebug
	c := obs("c", "debug-2", 20, "b")
	c.Level = types.ObservationLevelDebug
	d := obs("d", "kept", 30, "c")

	data := Build(nil, []*types.Observation{a, b, c, d}, Options{MinLevel: types.ObservationLevelDefault})

	assert.Equal(t, 2, data.HiddenObservationsCount)
	require.NotNil(t, data.NodeMap["d"])
	assert.Equal(t, "a", data.NodeMap["d"].ParentID)
	assert.NotContains(t, data.NodeMap, "b")
	assert.NotContains(t, data.NodeMap, "c")

	// no orphan loss: every survivor is indexed exactly once
	assert.Len(t, data.NodeMap, 2)
}

func TestBuildReparentsThroughFilteredContainer(t *testing.T) {
	turn := obs("turn", "turn_1", 0, "")
	container := obs("cont", "parser.turn_001.tool_calls", 10, "turn")
	leaf := obs("leaf", "session.parser.turn_001.tool_result.web_search.9", 20, "cont")

	data := Build(nil, []*types.Observation{turn, container, leaf}, Options{})

	assert.NotContains(t, data.NodeMap, "cont")
	require.NotNil(t, data.NodeMap["leaf"])
	// no web_search.9 invocation exists, so the leaf lands on the
	// container's surviving ancestor
	assert.Equal(t, "turn", data.NodeMap["leaf"].ParentID)
	// containers are not counted as hidden; only the level filter is
	assert.Equal(t, 0, data.HiddenObservationsCount)
}

func TestBuildToolResultAttachesToInvocation(t *testing.T) {
	turn := obs("turn", "turn_1", 0, "")
	tool := obs("tool", "web_search.3", 10, "turn")
	result := obs("res", "parser.turn_001.tool_result.web_search.3", 20, "turn")

	data := Build(nil, []*types.Observation{turn, tool, result}, Options{})

	require.NotNil(t, data.NodeMap["res"])
	assert.Equal(t, "tool", data.NodeMap["res"].ParentID)
}

func TestBuildLegacyToolNameMatchesResult(t *testing.T) {
	tool := obs("tool", "tool.web_search.result.call_3", 10, "")
	result := obs("res", "parser.turn_001.tool_result.web_search.3", 20, "")

	data := Build(nil, []*types.Observation{tool, result}, Options{})

	assert.Equal(t, "tool", data.NodeMap["res"].ParentID)
	assert.Equal(t, "web_search.3", data.NodeMap["tool"].Name)
}

func TestBuildPreToolClaimsNextInvocation(t *testing.T) {
	pre := obs("pre", "parser.turn_001.pre_web_search.4", 10, "")
	tool := obs("tool", "web_search.4", 20, "")

	data := Build(nil, []*types.Observation{pre, tool}, Options{})

	assert.Equal(t, "pre", data.NodeMap["tool"].ParentID)
}

func TestBuildTurnWindowAttachment(t *testing.T) {
	turn1 := obs("t1", "turn_1", 0, "")
	turn2 := obs("t2", "turn_2", 1000, "")
	// no explicit parent; starts inside turn 1's window
	inside := obs("n1", "kernel", 500, "")
	// starts after turn 2 began; the window boundary is the next turn's
	// start, not turn 1's (unreliable) end time
	later := obs("n2", "kernel", 1500, "")

	data := Build(nil, []*types.Observation{turn1, turn2, inside, later}, Options{})

	assert.Equal(t, "t1", data.NodeMap["n1"].ParentID)
	assert.Equal(t, "t2", data.NodeMap["n2"].ParentID)
}

func TestBuildExplicitParentBeatsTurnWindow(t *testing.T) {
	turn1 := obs("t1", "turn_1", 0, "")
	other := obs("o", "agent", 100, "")
	child := obs("c", "step", 500, "o")

	data := Build(nil, []*types.Observation{turn1, other, child}, Options{})

	assert.Equal(t, "o", data.NodeMap["c"].ParentID)
}

func TestBuildSurvivesParentCycles(t *testing.T) {
	a := obs("a", "one", 0, "b")
	b := obs("b", "two", 10, "a")

	data := Build(nil, []*types.Observation{a, b}, Options{})

	// both nodes survive; one edge of the cycle is cut
	assert.Len(t, data.NodeMap, 2)
	parents := []string{data.NodeMap["a"].ParentID, data.NodeMap["b"].ParentID}
	assert.Contains(t, parents, "")
}

func TestBuildDeterministicUnderPermutation(t *testing.T) {
	_, observations := fixtureTrace()
	reference := Build(nil, observations, Options{})

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		shuffled := append([]*types.Observation(nil), observations...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := Build(nil, shuffled, Options{})

		require.Len(t, got.NodeMap, len(reference.NodeMap))
		for id, want := range reference.NodeMap {
			node := got.NodeMap[id]
			require.NotNil(t, node, "node %s missing", id)
			assert.Equal(t, want.ParentID, node.ParentID, "parent of %s", id)
			assert.Equal(t, want.Depth, node.Depth, "depth of %s", id)
			if want.TotalCost == nil {
				assert.Nil(t, node.TotalCost, "cost of %s", id)
			} else {
				require.NotNil(t, node.TotalCost, "cost of %s", id)
				assert.InDelta(t, *want.TotalCost, *node.TotalCost, 1e-9, "cost of %s", id)
			}
		}
		require.Len(t, got.SearchItems, len(reference.SearchItems))
		for j := range reference.SearchItems {
			assert.Equal(t, reference.SearchItems[j].ID, got.SearchItems[j].ID)
		}
	}
}

// fixtureTrace builds a two-turn trace exercising filtering, heuristic
// re-parenting, and cost aggregation in one shape.
func fixtureTrace() (*types.Trace, []*types.Observation) {
	observations := []*types.Observation{
		obs("t1", "turn_1", 0, ""),
		withCost(obs("k1", "kernel", 100, "t1"), 0.01),
		obs("cont1", "parser.turn_001.tool_calls", 150, "t1"),
		withCost(obs("w1", "web_search.1", 200, "t1"), 0.001),
		obs("r1", "session.parser.turn_001.tool_result.web_search.1", 300, "cont1"),
		obs("t2", "turn_2", 1000, ""),
		withCost(obs("k2", "kernel", 1100, "t2"), 0.02),
		obs("free", "untethered", 1200, ""),
	}
	return &types.Trace{ID: "fixture"}, observations
}

func TestBuildSearchItemsPreOrder(t *testing.T) {
	_, observations := fixtureTrace()
	data := Build(nil, observations, Options{})

	// wrapper + all surviving nodes (container filtered out)
	require.Len(t, data.SearchItems, len(data.NodeMap)+1)
	assert.Equal(t, data.Roots[0].ID, data.SearchItems[0].ID)

	// pre-order: a parent always precedes its children
	pos := make(map[string]int, len(data.SearchItems))
	for i, item := range data.SearchItems {
		pos[item.ID] = i
	}
	for id, node := range data.NodeMap {
		if node.ParentID != "" {
			assert.Less(t, pos[node.ParentID], pos[id], "parent of %s must precede it", id)
		}
	}
}
