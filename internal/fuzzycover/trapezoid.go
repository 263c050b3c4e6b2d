package fuzzycover

import (
	"fmt"
	"math"
)

// Trapezoid is a trapezoidal fuzzy number: 0 outside the support [A, D],
// 1 on the kernel [B, C], linear on the ramps between.
// Bounds may be infinite.
type Trapezoid struct {
	A, B, C, D float64
}

// NewTrapezoid builds a trapezoid from its kernel and support intervals.
// The support is widened to contain the kernel when it does not.
func NewTrapezoid(kernel, support [2]float64) Trapezoid {
	b, c := kernel[0], kernel[1]
	if b > c {
		b, c = c, b
	}
	return Trapezoid{
		A: math.Min(support[0], b),
		B: b,
		C: c,
		D: math.Max(support[1], c),
	}
}

func (t Trapezoid) Mu(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= t.B && x <= t.C:
		return 1
	case x <= t.A || x >= t.D:
		return 0
	case x < t.B:
		if math.IsInf(t.A, -1) {
			return 1
		}
		return (x - t.A) / (t.B - t.A)
	default:
		if math.IsInf(t.D, 1) {
			return 1
		}
		return (t.D - x) / (t.D - t.C)
	}
}

func (t Trapezoid) String() string {
	return fmt.Sprintf("[%.6g (%.6g, %.6g) %.6g]", t.A, t.B, t.C, t.D)
}
