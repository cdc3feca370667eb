package types

import (
	"encoding/json"
	"time"
)

// Time is a custom time type that tolerates the timestamp formats seen in
// exported trace data. When the time is zero, it marshals to JSON null.
// Note: the omitempty tag does NOT prevent zero times from being marshaled
// on Go versions before 1.24; use *Time if that matters.
type Time struct {
	time.Time
}

// IsZero returns true if the time is the zero value.
func (t Time) IsZero() bool {
	return t.Time.IsZero()
}

// MarshalJSON implements json.Marshaler.
// Zero times are marshaled as JSON null.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler. Accepts RFC3339Nano, RFC3339,
// millisecond-Z timestamps, fractional unix seconds, and null.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Try parsing as a number (Unix timestamp)
		var ts float64
		if err := json.Unmarshal(data, &ts); err != nil {
			return err
		}
		t.Time = time.Unix(int64(ts), int64((ts-float64(int64(ts)))*1e9))
		return nil
	}
	if s == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			parsed, err = time.Parse("2006-01-02T15:04:05.000Z", s)
			if err != nil {
				return err
			}
		}
	}
	t.Time = parsed
	return nil
}

// Now returns the current time as a Time.
func Now() Time {
	return Time{Time: time.Now()}
}

// TimePtr returns a pointer to a Time value.
func TimePtr(t time.Time) *Time {
	return &Time{Time: t}
}
