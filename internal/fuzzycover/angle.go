package fuzzycover

import "math"

// NormalizeAngle wraps an angle in radians into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi-AngleEps {
		return 0
	}
	return a
}

// AngleDiff returns the signed difference a-b wrapped into (-π, π].
func AngleDiff(a, b float64) float64 {
	d := NormalizeAngle(a - b)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
