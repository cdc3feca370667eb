package nodename

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Well-known synthetic node labels.
const (
	// StartNodeLabel is the synthetic graph entry node.
	StartNodeLabel = "__start__"
	// EndNodeLabel is the synthetic graph exit node.
	EndNodeLabel = "__end__"
	// TraceStartNodeLabel is the dedicated trace-start node some
	// producers emit ahead of the first turn.
	TraceStartNodeLabel = "trace_start"
	// FailureNodeLabel is the generic failure marker producers emit when
	// a step fails without a more specific label.
	FailureNodeLabel = "failure"
	// KernelNodeLabel marks a core reasoning/response-generation step.
	KernelNodeLabel = "kernel"

	// ParserNodePrefix prefixes every parser-stage node name.
	ParserNodePrefix = "parser."
	// SessionPrefix optionally prefixes parser and turn names.
	SessionPrefix = "session."
)

// ParsedNodeName is the structured form of a parser-stage node name.
type ParsedNodeName struct {
	// Turn is the zero-padded turn index parsed from the name.
	Turn int
	// Suffix holds the dot-separated segments after the turn marker.
	// Empty for bare turn containers like "parser.turn_003".
	Suffix []string
}

var (
	parserNameRe = regexp.MustCompile(`^(?:session\.)?parser\.turn_(\d+)(?:\.(.+))?$`)
	turnMarkerRe = regexp.MustCompile(`^(?:session\.)?turn_(\d+)$`)
	legacyToolRe = regexp.MustCompile(`^tool\.(.+)\.result\.call_(\d+)$`)
	parserLeafRe = regexp.MustCompile(`^parser\.(.+)\.(\d+)$`)
)

var containerSuffix = map[string]string{
	"tool_calls":        "Tool calls",
	"tool_results":      "Tool results",
	"tool_call":         "Tool call",
	"tool_result":       "Tool result",
	"structured_output": "Structured Output",
	// misspelling seen in the wild, kept for compatibility
	"structured_ouput": "Structured Output",
}

// ParseParserNodeName matches raw against the parser naming convention
// "[session.]parser.turn_<digits>[.<suffix>]". It returns the structured
// form and true on a match, and a zero value and false otherwise.
func ParseParserNodeName(raw string) (ParsedNodeName, bool) {
	m := parserNameRe.FindStringSubmatch(raw)
	if m == nil {
		return ParsedNodeName{}, false
	}
	turn, err := strconv.Atoi(m[1])
	if err != nil {
		// digits-only by construction; Atoi can only fail on overflow
		return ParsedNodeName{}, false
	}
	var suffix []string
	if m[2] != "" {
		suffix = strings.Split(m[2], ".")
	}
	return ParsedNodeName{Turn: turn, Suffix: suffix}, true
}

// IsParserContainerNodeName reports whether raw names a parser container:
// a bare turn node, or a single-segment group suffix such as "tool_calls"
// or "structured_output". Containers are implementation scaffolding and are
// suppressed from both derived views.
func IsParserContainerNodeName(raw string) bool {
	parsed, ok := ParseParserNodeName(raw)
	if !ok {
		return false
	}
	if len(parsed.Suffix) == 0 {
		return true
	}
	if len(parsed.Suffix) != 1 {
		return false
	}
	_, ok = containerSuffix[parsed.Suffix[0]]
	return ok
}

// NormalizeToolResultNodeName rewrites the legacy tool-result pattern
// "tool.<name>.result.call_<index>" to "<name>.<index>". Any other input
// is returned unchanged.
func NormalizeToolResultNodeName(raw string) string {
	m := legacyToolRe.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	return m[1] + "." + m[2]
}

// NormalizeParserNodeNameForGraph rewrites a parser node name into its
// compact graph form: the "session." prefix is dropped, and tool-call,
// tool-result, and pre-tool leaves collapse to "parser.<tool>.<index>"
// (or "parser.pre_<tool>.<index>"). Non-parser input passes through
// unchanged. The transform is idempotent.
func NormalizeParserNodeNameForGraph(raw string) string {
	parsed, ok := ParseParserNodeName(raw)
	if !ok {
		return raw
	}
	switch {
	case len(parsed.Suffix) == 3 && (parsed.Suffix[0] == "tool_call" || parsed.Suffix[0] == "tool_result"):
		return ParserNodePrefix + parsed.Suffix[1] + "." + parsed.Suffix[2]
	case len(parsed.Suffix) == 2 && strings.HasPrefix(parsed.Suffix[0], "pre_"):
		return ParserNodePrefix + parsed.Suffix[0] + "." + parsed.Suffix[1]
	}
	return strings.TrimPrefix(raw, SessionPrefix)
}

// FormatParserNodeName renders a human-readable two-part label for a
// parser node name: the turn, then a description derived from the suffix.
// When multiline is set the parts are joined with a newline instead of a
// separator. Returns false when raw is not a parser node name.
func FormatParserNodeName(raw string, multiline bool) (string, bool) {
	parsed, ok := ParseParserNodeName(raw)
	if !ok {
		return "", false
	}
	turnLabel := fmt.Sprintf("Turn %d", parsed.Turn)
	desc := describeSuffix(parsed.Suffix)
	if desc == "" {
		return turnLabel, true
	}
	if multiline {
		return turnLabel + "\n" + desc, true
	}
	return turnLabel + ": " + desc, true
}

func describeSuffix(suffix []string) string {
	switch len(suffix) {
	case 0:
		return ""
	case 1:
		if label, ok := containerSuffix[suffix[0]]; ok {
			return label
		}
	case 2:
		if tool, ok := strings.CutPrefix(suffix[0], "pre_"); ok {
			return fmt.Sprintf("%s pre-call #%s", tool, suffix[1])
		}
	case 3:
		switch suffix[0] {
		case "tool_result":
			return fmt.Sprintf("%s result #%s", suffix[1], suffix[2])
		case "tool_call":
			return fmt.Sprintf("%s call #%s", suffix[1], suffix[2])
		}
	}
	return strings.Join(suffix, ".")
}

// IsParserNodeName reports whether the (normalized or raw) name belongs to
// the parser stage. Parser nodes never source outgoing graph edges.
func IsParserNodeName(name string) bool {
	return strings.HasPrefix(name, ParserNodePrefix) ||
		strings.HasPrefix(name, SessionPrefix+ParserNodePrefix)
}

// ParseTurnMarker matches a turn boundary label "[session.]turn_<digits>"
// and returns the turn index.
func ParseTurnMarker(label string) (int, bool) {
	m := turnMarkerRe.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}
	turn, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return turn, true
}

// ParserLeafTarget extracts the semantic parent key "<tool>.<index>" from a
// compact parser leaf label "parser.<tool>.<index>". Pre-tool leaves and
// non-compact parser names return false; those attach elsewhere.
func ParserLeafTarget(normalized string) (string, bool) {
	m := parserLeafRe.FindStringSubmatch(normalized)
	if m == nil {
		return "", false
	}
	if strings.HasPrefix(m[1], "pre_") || strings.HasPrefix(m[1], "turn_") {
		return "", false
	}
	return m[1] + "." + m[2], true
}
