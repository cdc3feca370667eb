package types

// Trace represents one top-level execution and groups all observations
// that share it.
type Trace struct {
	ID          string   `json:"id"`
	Timestamp   Time     `json:"timestamp,omitempty"`
	Name        string   `json:"name,omitempty"`
	UserID      string   `json:"userId,omitempty"`
	Metadata    Metadata `json:"metadata,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	SessionID   string   `json:"sessionId,omitempty"`
	Release     string   `json:"release,omitempty"`
	Version     string   `json:"version,omitempty"`
	Public      bool     `json:"public,omitempty"`
	Environment string   `json:"environment,omitempty"`

	// RootObservationType, when set, marks the trace as rooted in real
	// observations of that type. Traces without it get a synthetic
	// wrapper root when rendered as a tree.
	RootObservationType ObservationType `json:"rootObservationType,omitempty"`

	// Read-only fields returned by the API
	ProjectID    string  `json:"projectId,omitempty"`
	CreatedAt    Time    `json:"createdAt,omitempty"`
	UpdatedAt    Time    `json:"updatedAt,omitempty"`
	Latency      float64 `json:"latency,omitempty"`
	TotalCost    float64 `json:"totalCost,omitempty"`
	InputCost    float64 `json:"inputCost,omitempty"`
	OutputCost   float64 `json:"outputCost,omitempty"`
	InputTokens  int     `json:"inputTokens,omitempty"`
	OutputTokens int     `json:"outputTokens,omitempty"`
	TotalTokens  int     `json:"totalTokens,omitempty"`
}
