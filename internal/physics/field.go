package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/soup/internal/dynamo"
)

// minChunk is the smallest slice of particles handed to a worker.
const minChunk = 64

// Field evaluates the pairwise force on every particle. A Field is immutable
// once built and may be shared by several integrators.
type Field struct {
	params  Params
	world   World
	species int
	matrix  []float64 // row-major, species × species
	workers int

	beta     float64
	triDenom float64
	rMaxSq   float64
}

// NewField validates its inputs and precomputes the zone constants.
// workers ≤ 0 uses one worker per CPU.
func NewField(params Params, matrix Matrix, world World, workers int) (*Field, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := world.Validate(); err != nil {
		return nil, err
	}
	if matrix.Size() == 0 {
		return nil, &dynamo.ConfigError{Field: "matrix", Message: "empty"}
	}
	if err := matrix.Validate(matrix.Size()); err != nil {
		return nil, err
	}
	beta := params.Beta()
	return &Field{
		params:   params,
		world:    world,
		species:  matrix.Size(),
		matrix:   matrix.flatten(),
		workers:  dynamo.Workers(workers),
		beta:     beta,
		triDenom: 1 - beta,
		rMaxSq:   params.RMax * params.RMax,
	}, nil
}

func (f *Field) Params() Params { return f.params }
func (f *Field) World() World   { return f.world }
func (f *Field) Species() int   { return f.species }
func (f *Field) Workers() int   { return f.workers }

// Coefficient returns matrix[a][b].
func (f *Field) Coefficient(a, b int) float64 { return f.matrix[a*f.species+b] }

// PairMagnitude is the signed radial magnitude felt by species a from a
// species-b particle at squared distance distSq. Positive pulls a toward b.
// Coincident pairs and pairs at or beyond RMax return 0.
func (f *Field) PairMagnitude(distSq float64, a, b int) float64 {
	if distSq <= minDist || distSq >= f.rMaxSq {
		return 0
	}
	return f.magnitude(math.Max(math.Sqrt(distSq), minDist), f.matrix[a*f.species+b])
}

func (f *Field) magnitude(dist, coeff float64) float64 {
	norm := dist / f.params.RMax
	switch {
	case norm < f.beta:
		return (norm/f.beta - 1) * f.params.RepulsionScale
	case norm < 1:
		return coeff * f.params.ForceScale * (1 - math.Abs(1+f.beta-2*norm)/f.triDenom)
	default:
		return 0
	}
}

// Forces writes the net force on each particle into fx, fy, which must have
// p.Len() elements. Rows are split across workers; each worker owns its rows.
func (f *Field) Forces(p *dynamo.Particles, fx, fy []float64) error {
	n := p.Len()
	if len(fx) != n || len(fy) != n {
		return fmt.Errorf("%w: %d particles, %d fx, %d fy", dynamo.ErrDimensionMismatch, n, len(fx), len(fy))
	}
	if p.SpeciesCount() > f.species {
		return fmt.Errorf("%w: population has %d species, matrix covers %d", dynamo.ErrDimensionMismatch, p.SpeciesCount(), f.species)
	}

	xs, ys := p.Positions()
	tags := p.Tags()
	dynamo.ParallelFor(n, f.workers, minChunk, func(start, end int) {
		f.forceRows(xs, ys, tags, fx, fy, start, end)
	})
	return nil
}

func (f *Field) forceRows(xs, ys []float64, tags []int, fx, fy []float64, start, end int) {
	w, h := f.world.Width, f.world.Height
	for i := start; i < end; i++ {
		xi, yi := xs[i], ys[i]
		row := f.matrix[tags[i]*f.species : (tags[i]+1)*f.species]
		var sx, sy float64
		for j := range xs {
			dx := MinImage(xs[j]-xi, w)
			dy := MinImage(ys[j]-yi, h)
			distSq := dx*dx + dy*dy
			if distSq <= minDist || distSq >= f.rMaxSq {
				continue
			}
			dist := math.Max(math.Sqrt(distSq), minDist)
			mag := f.magnitude(dist, row[tags[j]])
			inv := 1 / dist
			sx += mag * dx * inv
			sy += mag * dy * inv
		}
		fx[i], fy[i] = sx, sy
	}
}
