package summary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverage_ZeroCount(t *testing.T) {
	assert.Equal(t, 0.0, Average(42, 0))
	assert.Equal(t, 2.5, Average(5, 2))
}

func TestPercentage_ZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(120, 0))
	assert.Equal(t, 50.0, Percentage(1, 2))
}

func TestRounding(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"round1 half up", Round1(0.25), 0.3},
		{"round1 negative half away", Round1(-0.25), -0.3},
		{"round1 plain", Round1(59.354838), 59.4},
		{"round2", Round2(66.666), 66.67},
		{"round1 nan", Round1(math.NaN()), 0},
		{"round1 inf", Round1(math.Inf(1)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.got, 1e-9)
		})
	}

	assert.Equal(t, 4, RoundInt(3.5))
	assert.Equal(t, -4, RoundInt(-3.5))
	assert.Equal(t, 3, RoundInt(3.49))
}
