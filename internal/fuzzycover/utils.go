package fuzzycover

import (
	"math"
	"runtime"
)

func isFinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func workerCount(n int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return imax(n, 1)
}
