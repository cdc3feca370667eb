package types

// ObservationType represents the kind of observation. The set is open:
// producers are free to emit other kinds, which are carried through
// untouched.
type ObservationType string

const (
	ObservationTypeSpan       ObservationType = "SPAN"
	ObservationTypeGeneration ObservationType = "GENERATION"
	ObservationTypeEvent      ObservationType = "EVENT"
	ObservationTypeTool       ObservationType = "TOOL"
	ObservationTypeAgent      ObservationType = "AGENT"
	ObservationTypeChain      ObservationType = "CHAIN"
)

// String returns the string representation of the observation type.
func (o ObservationType) String() string { return string(o) }

// ObservationLevel represents the severity level of an observation.
// Levels are totally ordered: DEBUG < DEFAULT < WARNING < ERROR.
type ObservationLevel string

const (
	ObservationLevelDebug   ObservationLevel = "DEBUG"
	ObservationLevelDefault ObservationLevel = "DEFAULT"
	ObservationLevelWarning ObservationLevel = "WARNING"
	ObservationLevelError   ObservationLevel = "ERROR"
)

// String returns the string representation of the observation level.
func (l ObservationLevel) String() string { return string(l) }

// Rank returns the position of the level in the severity order.
// Unknown or empty levels rank as DEFAULT.
func (l ObservationLevel) Rank() int {
	switch l {
	case ObservationLevelDebug:
		return 0
	case ObservationLevelWarning:
		return 2
	case ObservationLevelError:
		return 3
	default:
		return 1
	}
}

// AtLeast reports whether l is at or above the given minimum level.
func (l ObservationLevel) AtLeast(min ObservationLevel) bool {
	return l.Rank() >= min.Rank()
}

// MaxLevel returns the more severe of two levels.
func MaxLevel(a, b ObservationLevel) ObservationLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
