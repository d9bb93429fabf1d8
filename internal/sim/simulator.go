package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/san-kum/soup/internal/dynamo"
	"github.com/san-kum/soup/internal/physics"
	"github.com/san-kum/soup/internal/render"
)

// Simulator is the host loop around one population: clamp frame time, integrate
// once, then publish. It is driven from a single goroutine.
type Simulator struct {
	particles *dynamo.Particles
	integ     *physics.Integrator
	palette   render.Palette
	packer    *render.Packer
	cfg       Config

	t     float64
	steps int

	metrics   []Metric
	observers []Observer
}

func New(p *dynamo.Particles, integ *physics.Integrator, palette render.Palette, cfg Config) (*Simulator, error) {
	if cfg.MaxFrameDt == 0 {
		cfg.MaxFrameDt = DefaultMaxFrameDt
	}
	if cfg.SampleEvery == 0 {
		cfg.SampleEvery = 1
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if p.SpeciesCount() > integ.Field().Species() {
		return nil, fmt.Errorf("%w: population has %d species, matrix covers %d", dynamo.ErrDimensionMismatch, p.SpeciesCount(), integ.Field().Species())
	}
	packer, err := render.NewPacker(p, palette)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		particles: p,
		integ:     integ,
		palette:   palette,
		packer:    packer,
		cfg:       cfg,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func validateConfig(cfg Config) error {
	if !(cfg.MaxFrameDt > 0) {
		return &dynamo.ConfigError{Field: "max_frame_dt", Message: fmt.Sprintf("must be positive, got %g", cfg.MaxFrameDt)}
	}
	if cfg.SampleEvery < 0 {
		return &dynamo.ConfigError{Field: "sample_every", Message: fmt.Sprintf("must not be negative, got %d", cfg.SampleEvery)}
	}
	return nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Particles() *dynamo.Particles { return s.particles }
func (s *Simulator) Field() *physics.Field        { return s.integ.Field() }
func (s *Simulator) Palette() render.Palette      { return s.palette }
func (s *Simulator) MaxFrameDt() float64          { return s.cfg.MaxFrameDt }
func (s *Simulator) Time() float64                { return s.t }
func (s *Simulator) Steps() int                   { return s.steps }
func (s *Simulator) Metrics() []Metric            { return s.metrics }

// Step clamps elapsed and advances the population once. It returns the dt
// actually integrated.
func (s *Simulator) Step(elapsed float64) (float64, error) {
	dt := ClampDt(elapsed, s.cfg.MaxFrameDt)
	if err := s.integ.Step(s.particles, dt); err != nil {
		return 0, fmt.Errorf("step %d: %w", s.steps, err)
	}
	s.t += dt
	s.steps++

	for _, m := range s.metrics {
		m.Observe(s.particles, s.t)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.steps, s.t, s.particles)
	}
	return dt, nil
}

// Run advances steps fixed-size steps headlessly, sampling metrics every
// SampleEvery steps. On cancellation the partial result is returned with the
// context error.
func (s *Simulator) Run(ctx context.Context, steps int, dt float64) (*Result, error) {
	if steps <= 0 {
		return nil, &dynamo.ConfigError{Field: "steps", Message: fmt.Sprintf("must be positive, got %d", steps)}
	}
	if !(dt > 0) {
		return nil, &dynamo.ConfigError{Field: "dt", Message: fmt.Sprintf("must be positive, got %g", dt)}
	}

	result := &Result{
		Metrics: make(map[string]float64),
		Series:  make(map[string][]float64),
		Times:   make([]float64, 0, steps/s.cfg.SampleEvery+1),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	start := time.Now()
	defer func() { result.Elapsed = time.Since(start) }()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		if _, err := s.Step(dt); err != nil {
			s.finish(result)
			return result, err
		}
		if s.steps%s.cfg.SampleEvery == 0 {
			result.Times = append(result.Times, s.t)
			for _, m := range s.metrics {
				result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
			}
		}
		result.Steps++
	}

	s.finish(result)
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	result.Time = s.t
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Frame returns a packed snapshot of the current positions. Hand it back with
// Release when done.
func (s *Simulator) Frame() *render.Frame {
	f := s.packer.Pack(s.particles)
	f.Time = s.t
	f.Step = s.steps
	return f
}

func (s *Simulator) Release(f *render.Frame) { s.packer.Release(f) }

// Reset scatters a fresh population of the same size and species count and
// restarts the clock.
func (s *Simulator) Reset(rng *rand.Rand) error {
	w := s.integ.Field().World()
	p, err := dynamo.Initialize(s.particles.Len(), s.particles.SpeciesCount(), w.Width, w.Height, rng)
	if err != nil {
		return err
	}
	packer, err := render.NewPacker(p, s.palette)
	if err != nil {
		return err
	}
	s.particles, s.packer = p, packer
	s.t, s.steps = 0, 0
	for _, m := range s.metrics {
		m.Reset()
	}
	return nil
}

// SetMatrix starts a new run under a different force matrix. Positions and
// velocities carry over; the clock, step count and metrics restart.
func (s *Simulator) SetMatrix(m physics.Matrix) error {
	f := s.integ.Field()
	integ, err := physics.New(f.Params(), m, f.World(), f.Workers())
	if err != nil {
		return err
	}
	if s.particles.SpeciesCount() > integ.Field().Species() {
		return fmt.Errorf("%w: population has %d species, matrix covers %d", dynamo.ErrDimensionMismatch, s.particles.SpeciesCount(), integ.Field().Species())
	}
	s.integ = integ
	s.t, s.steps = 0, 0
	for _, mt := range s.metrics {
		mt.Reset()
	}
	return nil
}
