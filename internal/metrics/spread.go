package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/soup/internal/dynamo"
	"github.com/san-kum/soup/internal/physics"
)

// SpeciesSpread is the mean distance from each particle to the centroid of its
// species. Centroids on a torus are taken as circular means per axis, so a
// cluster straddling a seam is not split in two. Tight clusters read low.
type SpeciesSpread struct {
	name  string
	world physics.World
	value float64

	cos, sin []float64
}

func NewSpeciesSpread(world physics.World) *SpeciesSpread {
	return &SpeciesSpread{name: "species_spread", world: world}
}

func (s *SpeciesSpread) Name() string { return s.name }

func (s *SpeciesSpread) Observe(p *dynamo.Particles, t float64) {
	if p.Len() == 0 {
		s.value = 0
		return
	}
	cx, cy := s.Centroids(p)
	xs, ys := p.Positions()
	tags := p.Tags()
	total := 0.0
	for i := range xs {
		dx, dy := s.world.Delta(cx[tags[i]], cy[tags[i]], xs[i], ys[i])
		total += math.Hypot(dx, dy)
	}
	s.value = total / float64(len(xs))
}

func (s *SpeciesSpread) Value() float64 { return s.value }
func (s *SpeciesSpread) Reset()         { s.value = 0 }

// Centroids returns the toroidal centroid of every species.
func (s *SpeciesSpread) Centroids(p *dynamo.Particles) (cx, cy []float64) {
	sc := p.SpeciesCount()
	cx = make([]float64, sc)
	cy = make([]float64, sc)
	xs, ys := p.Positions()
	tags := p.Tags()

	weights := make([]float64, len(xs))
	for sp := 0; sp < sc; sp++ {
		for i, tag := range tags {
			weights[i] = 0
			if tag == sp {
				weights[i] = 1
			}
		}
		cx[sp] = s.circularMean(xs, weights, s.world.Width)
		cy[sp] = s.circularMean(ys, weights, s.world.Height)
	}
	return cx, cy
}

func (s *SpeciesSpread) circularMean(vals, weights []float64, extent float64) float64 {
	if cap(s.cos) < len(vals) {
		s.cos = make([]float64, len(vals))
		s.sin = make([]float64, len(vals))
	}
	s.cos, s.sin = s.cos[:len(vals)], s.sin[:len(vals)]
	for i, v := range vals {
		theta := 2 * math.Pi * v / extent
		s.cos[i] = math.Cos(theta)
		s.sin[i] = math.Sin(theta)
	}
	theta := math.Atan2(stat.Mean(s.sin, weights), stat.Mean(s.cos, weights))
	return physics.Wrap(theta/(2*math.Pi)*extent, extent)
}
