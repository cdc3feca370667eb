package nodename

import "strings"

// NodeKind is the tagged classification of a normalized node label.
// Consumers branch on the kind rather than re-deriving it from the label.
type NodeKind string

const (
	KindStart           NodeKind = "start"
	KindEnd             NodeKind = "end"
	KindTraceStart      NodeKind = "trace_start"
	KindTurnMarker      NodeKind = "turn"
	KindParserContainer NodeKind = "parser_container"
	KindParserLeaf      NodeKind = "parser_leaf"
	KindKernel          NodeKind = "kernel"
	KindFailure         NodeKind = "failure"
	KindPlain           NodeKind = "plain"
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string { return string(k) }

// Classify buckets a normalized node label into its NodeKind.
func Classify(label string) NodeKind {
	switch label {
	case StartNodeLabel:
		return KindStart
	case EndNodeLabel:
		return KindEnd
	case TraceStartNodeLabel:
		return KindTraceStart
	}
	if _, ok := ParseTurnMarker(label); ok {
		return KindTurnMarker
	}
	if IsParserNodeName(label) {
		if IsParserContainerNodeName(label) {
			return KindParserContainer
		}
		return KindParserLeaf
	}
	if label == KernelNodeLabel || strings.HasPrefix(label, KernelNodeLabel+".") {
		return KindKernel
	}
	if label == FailureNodeLabel || strings.HasPrefix(label, FailureNodeLabel+".") {
		return KindFailure
	}
	return KindPlain
}
