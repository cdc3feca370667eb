package types

// Observation represents a single execution unit (span, generation, tool
// call, or event) recorded within a trace.
//
// The relational fields are best-effort: ParentObservationID may be absent,
// or may reference an observation that a consumer has since filtered out.
// Node and Step are only populated by producers that emit flow-graph
// metadata. Consumers must treat all of them as hints, not guarantees.
type Observation struct {
	ID                  string           `json:"id"`
	TraceID             string           `json:"traceId,omitempty"`
	Type                ObservationType  `json:"type"`
	Name                string           `json:"name,omitempty"`
	Node                *string          `json:"node,omitempty"`
	Step                *int             `json:"step,omitempty"`
	StartTime           Time             `json:"startTime,omitempty"`
	EndTime             Time             `json:"endTime,omitempty"`
	CompletionStartTime Time             `json:"completionStartTime,omitempty"`
	Metadata            Metadata         `json:"metadata,omitempty"`
	Level               ObservationLevel `json:"level,omitempty"`
	StatusMessage       string           `json:"statusMessage,omitempty"`
	ParentObservationID string           `json:"parentObservationId,omitempty"`
	Version             string           `json:"version,omitempty"`
	Environment         string           `json:"environment,omitempty"`

	// Generation-specific fields
	Model           string         `json:"model,omitempty"`
	ModelParameters map[string]any `json:"modelParameters,omitempty"`
	PromptName      string         `json:"promptName,omitempty"`
	PromptVersion   int            `json:"promptVersion,omitempty"`

	// Usage fields. Pointers distinguish "not reported" from zero.
	InputUsage  *int `json:"inputUsage,omitempty"`
	OutputUsage *int `json:"outputUsage,omitempty"`
	TotalUsage  *int `json:"totalUsage,omitempty"`

	// Cost fields. Pointers distinguish "not reported" from zero.
	TotalCost  *float64 `json:"totalCost,omitempty"`
	InputCost  *float64 `json:"inputCost,omitempty"`
	OutputCost *float64 `json:"outputCost,omitempty"`

	// Read-only fields returned by the API
	ProjectID        string  `json:"projectId,omitempty"`
	CreatedAt        Time    `json:"createdAt,omitempty"`
	UpdatedAt        Time    `json:"updatedAt,omitempty"`
	Latency          float64 `json:"latency,omitempty"`
	TimeToFirstToken float64 `json:"timeToFirstToken,omitempty"`
}

// OwnCost returns the cost attributable to this observation alone, or false
// when no usable cost was reported. TotalCost wins when present and
// non-zero; otherwise the sum of input and output costs is used when that
// sum is non-zero.
func (o *Observation) OwnCost() (float64, bool) {
	if o.TotalCost != nil && *o.TotalCost != 0 {
		return *o.TotalCost, true
	}
	var sum float64
	if o.InputCost != nil {
		sum += *o.InputCost
	}
	if o.OutputCost != nil {
		sum += *o.OutputCost
	}
	if sum != 0 {
		return sum, true
	}
	return 0, false
}

// NodeLabel returns the flow-graph label and whether one was set.
func (o *Observation) NodeLabel() (string, bool) {
	if o.Node == nil || *o.Node == "" {
		return "", false
	}
	return *o.Node, true
}
