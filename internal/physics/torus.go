package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/soup/internal/dynamo"
)

// World is the extent of the toroidal domain; opposite edges are joined.
type World struct {
	Width, Height float64
}

func (w World) Validate() error {
	if !(w.Width > 0) || !(w.Height > 0) || math.IsInf(w.Width, 0) || math.IsInf(w.Height, 0) {
		return &dynamo.ConfigError{Field: "world", Message: fmt.Sprintf("extent must be positive and finite, got %gx%g", w.Width, w.Height)}
	}
	return nil
}

// MinImage folds a displacement along one axis onto the shortest path across
// the wrap. Displacements within half the extent are returned unchanged.
func MinImage(d, extent float64) float64 {
	if math.Abs(d) > extent/2 {
		d -= math.Round(d/extent) * extent
	}
	return d
}

// Wrap maps a coordinate into [0, extent).
func Wrap(v, extent float64) float64 {
	r := v - math.Floor(v/extent)*extent
	if r < 0 {
		r += extent
	}
	if r >= extent {
		r = 0
	}
	return r
}

// Delta is the minimum-image displacement from (x1, y1) to (x2, y2).
func (w World) Delta(x1, y1, x2, y2 float64) (dx, dy float64) {
	return MinImage(x2-x1, w.Width), MinImage(y2-y1, w.Height)
}
