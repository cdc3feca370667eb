package types

import "testing"

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }
func sptr(s string) *string   { return &s }

func TestObservationOwnCost(t *testing.T) {
	tests := []struct {
		name   string
		obs    Observation
		want   float64
		wantOK bool
	}{
		{
			name:   "total cost wins",
			obs:    Observation{TotalCost: fptr(1.5), InputCost: fptr(10)},
			want:   1.5,
			wantOK: true,
		},
		{
			name:   "zero total falls through to parts",
			obs:    Observation{TotalCost: fptr(0), InputCost: fptr(0.3), OutputCost: fptr(0.2)},
			want:   0.5,
			wantOK: true,
		},
		{
			name:   "input only",
			obs:    Observation{InputCost: fptr(0.3)},
			want:   0.3,
			wantOK: true,
		},
		{
			name:   "nothing reported",
			obs:    Observation{},
			wantOK: false,
		},
		{
			name:   "all zero",
			obs:    Observation{TotalCost: fptr(0), InputCost: fptr(0), OutputCost: fptr(0)},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.obs.OwnCost()
			if ok != tt.wantOK {
				t.Fatalf("OwnCost() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("OwnCost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObservationNodeLabel(t *testing.T) {
	o := Observation{Node: sptr("kernel")}
	if label, ok := o.NodeLabel(); !ok || label != "kernel" {
		t.Errorf("NodeLabel() = (%q, %v), want (kernel, true)", label, ok)
	}
	if _, ok := (&Observation{}).NodeLabel(); ok {
		t.Error("NodeLabel() on unset node should report false")
	}
	if _, ok := (&Observation{Node: sptr("")}).NodeLabel(); ok {
		t.Error("NodeLabel() on empty node should report false")
	}
}
