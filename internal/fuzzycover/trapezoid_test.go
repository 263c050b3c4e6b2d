package fuzzycover

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrapezoidMu(t *testing.T) {
	tr := NewTrapezoid([2]float64{2, 4}, [2]float64{1, 6})
	cases := []struct{ x, want float64 }{
		{0, 0}, {1, 0}, {1.5, 0.5}, {2, 1}, {3, 1}, {4, 1}, {5, 0.5}, {6, 0}, {7, 0},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, tr.Mu(tc.x), 1e-12, "x=%v", tc.x)
	}
}

func TestTrapezoidStepsAndInfinity(t *testing.T) {
	step := NewTrapezoid([2]float64{0, 5}, [2]float64{0, 5})
	assert.Equal(t, 1.0, step.Mu(0))
	assert.Equal(t, 1.0, step.Mu(5))
	assert.Equal(t, 0.0, step.Mu(5.0001))
	assert.Equal(t, 0.0, step.Mu(-0.0001))

	open := NewTrapezoid([2]float64{1, 2}, [2]float64{0, math.Inf(1)})
	assert.Equal(t, 1.0, open.Mu(1e9))
	assert.InDelta(t, 0.5, open.Mu(0.5), 1e-12)

	far := NewTrapezoid([2]float64{1, math.Inf(1)}, [2]float64{0, math.Inf(1)})
	assert.Equal(t, 1.0, far.Mu(1e12))
	assert.InDelta(t, 0.5, far.Mu(0.5), 1e-12)
}

func TestNewTrapezoidWidensSupport(t *testing.T) {
	tr := NewTrapezoid([2]float64{4, 2}, [2]float64{3, 3})
	assert.Equal(t, Trapezoid{A: 2, B: 2, C: 4, D: 4}, tr)
}
