package sim

import (
	"time"

	"github.com/san-kum/soup/internal/dynamo"
)

// DefaultMaxFrameDt caps how much simulated time a single frame may cover.
const DefaultMaxFrameDt = 1.0 / 30

// Metric summarizes the population after each step.
type Metric interface {
	Name() string
	Observe(p *dynamo.Particles, t float64)
	Value() float64
	Reset()
}

// Observer is told about every completed step. p must be treated as read-only
// and must not be retained past the call.
type Observer interface {
	OnStep(step int, t float64, p *dynamo.Particles)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(step int, t float64, p *dynamo.Particles)

func (f ObserverFunc) OnStep(step int, t float64, p *dynamo.Particles) { f(step, t, p) }

type Config struct {
	MaxFrameDt  float64 // elapsed-time clamp, DefaultMaxFrameDt if zero
	SampleEvery int     // metric sampling stride for Run, 1 if zero
}

type Result struct {
	Steps   int
	Time    float64
	Elapsed time.Duration
	Metrics map[string]float64   // final values
	Series  map[string][]float64 // sampled values
	Times   []float64            // sample times
}
