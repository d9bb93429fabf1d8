package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/soup/internal/dynamo"
)

const (
	DefaultRMin           = 15.0
	DefaultRMax           = 200.0
	DefaultFriction       = 0.035
	DefaultForceScale     = 25.0
	DefaultRepulsionScale = 250.0
	DefaultMaxSpeed       = 300.0
)

// minDist floors distances and speeds before they are divided by; a squared
// distance at or below minDist counts as coincident.
const minDist = 1e-6

// Params shapes the force curve. It is fixed for the lifetime of a Field.
type Params struct {
	RMin           float64 // inner repulsion radius
	RMax           float64 // interaction cutoff
	Friction       float64 // velocity damping per step, v *= 1 - Friction
	ForceScale     float64 // multiplier on matrix coefficients
	RepulsionScale float64 // inner-zone push at contact
	MaxSpeed       float64 // hard speed cap, world units per second
}

func DefaultParams() Params {
	return Params{
		RMin:           DefaultRMin,
		RMax:           DefaultRMax,
		Friction:       DefaultFriction,
		ForceScale:     DefaultForceScale,
		RepulsionScale: DefaultRepulsionScale,
		MaxSpeed:       DefaultMaxSpeed,
	}
}

// Beta is the inner radius as a fraction of the interaction radius.
func (p Params) Beta() float64 { return p.RMin / p.RMax }

// Validate rejects parameter sets that would break the force curve.
func (p Params) Validate() error {
	for name, v := range map[string]float64{
		"r_min": p.RMin, "r_max": p.RMax, "friction": p.Friction,
		"force_scale": p.ForceScale, "repulsion_scale": p.RepulsionScale, "max_speed": p.MaxSpeed,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &dynamo.ConfigError{Field: name, Message: fmt.Sprintf("must be finite, got %v", v)}
		}
	}
	if p.RMin <= 0 {
		return &dynamo.ConfigError{Field: "r_min", Message: fmt.Sprintf("must be positive, got %g", p.RMin)}
	}
	if p.RMin >= p.RMax {
		return &dynamo.ConfigError{Field: "r_min", Message: fmt.Sprintf("must be below r_max (%g >= %g)", p.RMin, p.RMax)}
	}
	if p.Friction < 0 || p.Friction >= 1 {
		return &dynamo.ConfigError{Field: "friction", Message: fmt.Sprintf("must be in [0, 1), got %g", p.Friction)}
	}
	if p.MaxSpeed <= 0 {
		return &dynamo.ConfigError{Field: "max_speed", Message: fmt.Sprintf("must be positive, got %g", p.MaxSpeed)}
	}
	if p.ForceScale < 0 {
		return &dynamo.ConfigError{Field: "force_scale", Message: fmt.Sprintf("must not be negative, got %g", p.ForceScale)}
	}
	if p.RepulsionScale < 0 {
		return &dynamo.ConfigError{Field: "repulsion_scale", Message: fmt.Sprintf("must not be negative, got %g", p.RepulsionScale)}
	}
	return nil
}

// GetParams exposes the tunables by name, for UIs that list them.
func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"r_min":           p.RMin,
		"r_max":           p.RMax,
		"friction":        p.Friction,
		"force_scale":     p.ForceScale,
		"repulsion_scale": p.RepulsionScale,
		"max_speed":       p.MaxSpeed,
	}
}
