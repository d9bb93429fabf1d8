package sim

import "math"

// ClampDt bounds a wall-clock frame time to [0, maxDt]. NaN maps to 0.
func ClampDt(elapsed, maxDt float64) float64 {
	if math.IsNaN(elapsed) || elapsed < 0 {
		return 0
	}
	return math.Min(elapsed, maxDt)
}
