package sim

import (
	"fmt"
	"math/rand/v2"

	"github.com/san-kum/soup/internal/config"
	"github.com/san-kum/soup/internal/dynamo"
	"github.com/san-kum/soup/internal/physics"
)

// FromConfig validates cfg and builds a simulator with a freshly scattered
// population drawn from rng.
func FromConfig(cfg *config.Config, rng *rand.Rand) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	integ, err := physics.New(cfg.Params(), cfg.ForceMatrix(), cfg.WorldBounds(), cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("build force field: %w", err)
	}
	p, err := dynamo.Initialize(cfg.Particles, cfg.Species, cfg.World.Width, cfg.World.Height, rng)
	if err != nil {
		return nil, err
	}
	return New(p, integ, cfg.Palette(), Config{MaxFrameDt: cfg.MaxFrameDt, SampleEvery: cfg.SampleEvery})
}

// ConfigFactory returns an ensemble factory that builds every member from cfg
// with the member's seed.
func ConfigFactory(cfg *config.Config, setup func(*Simulator)) Factory {
	return func(seed uint64) (*Simulator, error) {
		s, err := FromConfig(cfg, dynamo.NewRand(seed))
		if err != nil {
			return nil, err
		}
		if setup != nil {
			setup(s)
		}
		return s, nil
	}
}
