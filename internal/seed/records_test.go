package seed

import (
	"math"
	"testing"
)

func TestToCount(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{-3, 0},
		{math.NaN(), 0},
		{2.5, 3},
		{520.4, 520},
		{1e300, math.MaxInt32},
		{math.Inf(1), math.MaxInt32},
	}
	for _, tt := range tests {
		if got := toCount(tt.in); got != tt.want {
			t.Errorf("toCount(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeSafeZones_HugeCapacity(t *testing.T) {
	zones := normalizeSafeZones([]rawSafeZone{
		{ID: "sz_1", Capacity: 1e300, CurrentOccupancy: 40},
	})
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(zones))
	}
	if zones[0].Capacity != math.MaxInt32 {
		t.Errorf("expected capacity clamped to %d, got %d", math.MaxInt32, zones[0].Capacity)
	}
}
