package physics

import (
	"math"

	"github.com/san-kum/soup/internal/dynamo"
)

// Integrator advances a population by one explicit step:
//
//	v ← v·(1−friction) + F·dt, capped at MaxSpeed
//	p ← wrap(p + v·dt)
//
// It owns the force scratch buffers and is not safe for concurrent use.
type Integrator struct {
	field  *Field
	fx, fy []float64
}

func NewIntegrator(field *Field) *Integrator {
	return &Integrator{field: field}
}

// New builds a Field and an Integrator over it in one call.
func New(params Params, matrix Matrix, world World, workers int) (*Integrator, error) {
	field, err := NewField(params, matrix, world, workers)
	if err != nil {
		return nil, err
	}
	return NewIntegrator(field), nil
}

func (in *Integrator) Field() *Field { return in.field }

// LastForces returns the forces computed by the most recent Step.
func (in *Integrator) LastForces() (fx, fy []float64) { return in.fx, in.fy }

func (in *Integrator) ensureScratch(n int) {
	if len(in.fx) != n {
		in.fx = make([]float64, n)
		in.fy = make([]float64, n)
	}
}

// Step advances p by dt in place. dt is used as given; callers clamp it.
// All forces are computed from the pre-step positions before any particle moves.
func (in *Integrator) Step(p *dynamo.Particles, dt float64) error {
	in.ensureScratch(p.Len())
	if err := in.field.Forces(p, in.fx, in.fy); err != nil {
		return err
	}

	params := in.field.params
	w, h := in.field.world.Width, in.field.world.Height
	drag := 1 - params.Friction
	xs, ys := p.Positions()
	vx, vy := p.Velocities()
	for i := range xs {
		nvx, nvy := CapSpeed(vx[i]*drag+in.fx[i]*dt, vy[i]*drag+in.fy[i]*dt, params.MaxSpeed)
		vx[i], vy[i] = nvx, nvy
		xs[i] = Wrap(xs[i]+nvx*dt, w)
		ys[i] = Wrap(ys[i]+nvy*dt, h)
	}
	return nil
}

// CapSpeed rescales (vx, vy) so its magnitude does not exceed maxSpeed.
func CapSpeed(vx, vy, maxSpeed float64) (float64, float64) {
	speed := math.Max(math.Sqrt(vx*vx+vy*vy), minDist)
	scale := math.Min(maxSpeed/speed, 1)
	return vx * scale, vy * scale
}
