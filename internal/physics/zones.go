package physics

import "math"

// TriangleWave is the outer-zone envelope: 0 at norm = beta, 1 at the zone
// midpoint, 0 again at norm = 1.
func TriangleWave(norm, beta float64) float64 {
	return 1 - math.Abs(1+beta-2*norm)/(1-beta)
}

// Repulsion is the inner-zone magnitude: -scale at contact, 0 at norm = beta.
func Repulsion(norm, beta, scale float64) float64 {
	return (norm/beta - 1) * scale
}
