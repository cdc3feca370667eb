package tracegraph

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/traceview-go/pkg/nodename"
	"github.com/jdziat/traceview-go/pkg/types"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func gobs(id, node string, startMs int) *types.Observation {
	return &types.Observation{
		ID:        id,
		Name:      id,
		Type:      types.ObservationTypeSpan,
		StartTime: types.Time{Time: base.Add(time.Duration(startMs) * time.Millisecond)},
		Level:     types.ObservationLevelDefault,
		Node:      &node,
	}
}

func withStep(o *types.Observation, step int) *types.Observation {
	o.Step = &step
	return o
}

// twoTurnTrace is the canonical turn-chain shape: trace start, two turn
// windows, a tool invocation with its parser result leaf in the first.
func twoTurnTrace() []*types.Observation {
	return []*types.Observation{
		gobs("ts", "trace_start", 0),
		gobs("t1", "turn_1", 10),
		gobs("k1", "kernel", 20),
		gobs("w1", "web_search.1", 30),
		gobs("r1", "session.parser.turn_001.tool_result.web_search.1", 40),
		gobs("t2", "turn_2", 100),
		gobs("k2", "kernel.response", 110),
	}
}

func edgeSetOf(data *StepGraphData) map[GraphEdge]bool {
	set := make(map[GraphEdge]bool, len(data.Graph.Edges))
	for _, e := range data.Graph.Edges {
		set[e] = true
	}
	return set
}

func assertWellFormed(t *testing.T, data *StepGraphData) {
	t.Helper()
	ids := make(map[string]bool, len(data.Graph.Nodes))
	for _, n := range data.Graph.Nodes {
		assert.False(t, ids[n.ID], "duplicate node %s", n.ID)
		ids[n.ID] = true
	}
	seen := make(map[GraphEdge]bool, len(data.Graph.Edges))
	endEdges := 0
	for _, e := range data.Graph.Edges {
		assert.False(t, seen[e], "duplicate edge %v", e)
		seen[e] = true
		assert.NotEqual(t, e.From, e.To, "self loop %v", e)
		assert.True(t, ids[e.From], "edge from unknown node %s", e.From)
		assert.True(t, ids[e.To], "edge to unknown node %s", e.To)
		assert.NotEqual(t, nodename.StartNodeLabel, e.To, "edge into start")
		assert.NotEqual(t, nodename.EndNodeLabel, e.From, "edge out of end")
		assert.False(t, nodename.IsParserNodeName(e.From), "edge out of parser node %s", e.From)
		if e.To == nodename.EndNodeLabel {
			endEdges++
		}
	}
	assert.LessOrEqual(t, endEdges, 1, "multiple edges into end")
	if len(data.Graph.Nodes) > 0 {
		assert.Equal(t, nodename.StartNodeLabel, data.Graph.Nodes[0].ID)
		assert.Equal(t, nodename.EndNodeLabel, data.Graph.Nodes[len(data.Graph.Nodes)-1].ID)
	}
	for label := range data.NodeToObservations {
		assert.True(t, ids[label], "observation mapping for unknown node %s", label)
		assert.NotEqual(t, nodename.StartNodeLabel, label)
		assert.NotEqual(t, nodename.EndNodeLabel, label)
	}
}

func TestBuildTurnChain(t *testing.T) {
	data := Build(twoTurnTrace())
	assertWellFormed(t, data)

	require.Len(t, data.Graph.Nodes, 9)
	edges := edgeSetOf(data)
	want := []GraphEdge{
		{From: nodename.StartNodeLabel, To: "trace_start"},
		{From: "trace_start", To: "turn_1"},
		{From: "turn_1", To: "kernel"},
		{From: "kernel", To: "web_search.1"},
		{From: "web_search.1", To: "turn_2"},
		{From: "turn_2", To: "kernel.response"},
		{From: "kernel.response", To: nodename.EndNodeLabel},
		{From: "web_search.1", To: "parser.web_search.1"},
	}
	require.Len(t, data.Graph.Edges, len(want))
	for _, e := range want {
		assert.True(t, edges[e], "missing edge %v", e)
	}

	// only the second turn's tail reaches the end node
	for e := range edges {
		if e.To == nodename.EndNodeLabel {
			assert.Equal(t, "kernel.response", e.From)
		}
	}

	assert.Equal(t, []string{"r1"}, data.NodeToObservations["parser.web_search.1"])
	assert.Equal(t, []string{"t1"}, data.NodeToObservations["turn_1"])
	assert.NotContains(t, data.NodeToObservations, nodename.StartNodeLabel)
}

func TestBuildFailureMarkersStaySeparate(t *testing.T) {
	input := []*types.Observation{
		gobs("t1", "turn_1", 0),
		gobs("f1", "failure", 10),
		gobs("f2", "failure", 20),
	}
	data := Build(input)
	assertWellFormed(t, data)

	edges := edgeSetOf(data)
	assert.True(t, edges[GraphEdge{From: "turn_1", To: "failure.1"}])
	assert.True(t, edges[GraphEdge{From: "failure.1", To: "failure.2"}])
	assert.Equal(t, []string{"f1"}, data.NodeToObservations["failure.1"])
	assert.Equal(t, []string{"f2"}, data.NodeToObservations["failure.2"])
}

func TestBuildContainersPruned(t *testing.T) {
	input := []*types.Observation{
		gobs("c1", "parser.turn_001", 0),
		gobs("c2", "parser.turn_001.tool_calls", 10),
		gobs("c3", "session.parser.turn_002.structured_ouput", 20),
	}
	data := Build(input)
	assertWellFormed(t, data)

	// only the synthetic terminals remain
	require.Len(t, data.Graph.Nodes, 2)
	assert.Empty(t, data.Graph.Edges)
	assert.Empty(t, data.NodeToObservations)
}

func TestBuildIgnoresObservationsWithoutNode(t *testing.T) {
	data := Build([]*types.Observation{
		{ID: "bare", Name: "no-node", StartTime: types.Time{Time: base}},
	})
	require.Len(t, data.Graph.Nodes, 2)
	assert.Empty(t, data.NodeToObservations)
}

func TestBuildMergesNormalizedVariants(t *testing.T) {
	input := []*types.Observation{
		gobs("t1", "turn_1", 0),
		gobs("w1", "web_search.1", 10),
		gobs("a", "parser.turn_001.tool_result.web_search.1", 20),
		gobs("b", "session.parser.turn_001.tool_result.web_search.1", 30),
	}
	data := Build(input)
	assertWellFormed(t, data)

	assert.Equal(t, []string{"a", "b"}, data.NodeToObservations["parser.web_search.1"])
	edges := edgeSetOf(data)
	assert.True(t, edges[GraphEdge{From: "web_search.1", To: "parser.web_search.1"}])
}

func TestBuildParserLeafFallsBackToKernel(t *testing.T) {
	// pre-tool leaves never name an invocation, so they land on the most
	// recent kernel in their window
	input := []*types.Observation{
		gobs("t1", "turn_1", 0),
		gobs("k1", "kernel", 10),
		gobs("p1", "parser.turn_001.pre_web_search.2", 20),
	}
	data := Build(input)
	assertWellFormed(t, data)

	edges := edgeSetOf(data)
	assert.True(t, edges[GraphEdge{From: "kernel", To: "parser.pre_web_search.2"}])
}

func TestBuildStepFallbackBipartite(t *testing.T) {
	input := []*types.Observation{
		withStep(gobs("a", "plan", 0), 1),
		withStep(gobs("b", "search", 10), 1),
		withStep(gobs("c", "answer", 20), 2),
	}
	data := Build(input)
	assertWellFormed(t, data)

	edges := edgeSetOf(data)
	assert.True(t, edges[GraphEdge{From: nodename.StartNodeLabel, To: "plan"}])
	assert.True(t, edges[GraphEdge{From: nodename.StartNodeLabel, To: "search"}])
	assert.True(t, edges[GraphEdge{From: "plan", To: "answer"}])
	assert.True(t, edges[GraphEdge{From: "search", To: "answer"}])
	assert.True(t, edges[GraphEdge{From: "answer", To: nodename.EndNodeLabel}])
	require.Len(t, data.Graph.Edges, 5)
}

func TestBuildStepFallbackSingleEndEdge(t *testing.T) {
	// two nodes share the final step; only one edge may reach the end
	input := []*types.Observation{
		withStep(gobs("a", "plan", 0), 1),
		withStep(gobs("b", "answer", 10), 2),
		withStep(gobs("c", "cleanup", 20), 2),
	}
	data := Build(input)
	assertWellFormed(t, data)

	edges := edgeSetOf(data)
	// cleanup is seen last, so its terminal edge survives
	assert.True(t, edges[GraphEdge{From: "cleanup", To: nodename.EndNodeLabel}])
	assert.False(t, edges[GraphEdge{From: "answer", To: nodename.EndNodeLabel}])
}

func TestBuildSeverityTitle(t *testing.T) {
	bad := gobs("f1", "kernel", 10)
	bad.Level = types.ObservationLevelError
	input := []*types.Observation{
		gobs("t1", "turn_1", 0),
		bad,
		gobs("k2", "kernel", 20), // same node, default level; max wins
	}
	data := Build(input)

	var kernel *GraphNode
	for i := range data.Graph.Nodes {
		if data.Graph.Nodes[i].ID == "kernel" {
			kernel = &data.Graph.Nodes[i]
		}
	}
	require.NotNil(t, kernel)
	assert.Equal(t, "ERROR", kernel.Title)
}

func TestBuildDeterministicUnderPermutation(t *testing.T) {
	input := twoTurnTrace()
	reference := Build(input)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5; i++ {
		shuffled := append([]*types.Observation(nil), input...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := Build(shuffled)
		assert.Equal(t, reference.Graph, got.Graph)
		assert.Equal(t, reference.NodeToObservations, got.NodeToObservations)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	data := Build(nil)
	require.Len(t, data.Graph.Nodes, 2)
	assert.Empty(t, data.Graph.Edges)
}
