package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimeUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "RFC3339Nano",
			input: `"2025-06-01T12:00:00.123456789Z"`,
			want:  time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.UTC),
		},
		{
			name:  "RFC3339 with offset",
			input: `"2025-06-01T14:00:00+02:00"`,
			want:  time.Date(2025, 6, 1, 14, 0, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			name:  "millisecond Z",
			input: `"2025-06-01T12:00:00.500Z"`,
			want:  time.Date(2025, 6, 1, 12, 0, 0, 500000000, time.UTC),
		},
		{
			name:  "unix seconds",
			input: `1748779200`,
			want:  time.Unix(1748779200, 0),
		},
		{
			name:  "null",
			input: `null`,
			want:  time.Time{},
		},
		{
			name:  "empty string",
			input: `""`,
			want:  time.Time{},
		},
		{
			name:    "garbage",
			input:   `"yesterday"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Time
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && !got.Time.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, got.Time, tt.want)
			}
		})
	}
}

func TestTimeMarshalJSON(t *testing.T) {
	zero, err := json.Marshal(Time{})
	if err != nil {
		t.Fatalf("Marshal(zero) error = %v", err)
	}
	if string(zero) != "null" {
		t.Errorf("Marshal(zero) = %s, want null", zero)
	}

	ts := Time{Time: time.Date(2025, 6, 1, 12, 0, 0, 500000000, time.UTC)}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	var back Time
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal(%s) error = %v", data, err)
	}
	if !back.Time.Equal(ts.Time) {
		t.Errorf("round trip = %v, want %v", back.Time, ts.Time)
	}
}
