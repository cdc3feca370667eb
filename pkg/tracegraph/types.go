package tracegraph

// GraphNode is one node of the rendering graph. ID is the normalized node
// label and is unique within the graph.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	// Title carries a severity annotation (WARNING or ERROR) when any
	// backing observation reported one; empty otherwise.
	Title string `json:"title,omitempty"`
}

// GraphEdge is an ordered (from, to) pair. The edge set is deduplicated.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GraphCanvasData is the node and edge set handed to the rendering layer.
type GraphCanvasData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// StepGraphData is the graph builder output: the canvas graph plus the
// index from normalized node label to the ids of the observations that
// produced it.
type StepGraphData struct {
	Graph              GraphCanvasData     `json:"graph"`
	NodeToObservations map[string][]string `json:"nodeToObservationsMap"`
}
