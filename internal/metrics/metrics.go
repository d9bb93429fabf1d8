// Package metrics holds population summaries sampled by the simulator.
package metrics

import (
	"github.com/san-kum/soup/internal/physics"
	"github.com/san-kum/soup/internal/sim"
)

// Names lists the metrics returned by Default, in order.
var Names = []string{"kinetic_energy", "mean_speed", "max_speed", "capped_fraction", "species_spread"}

// Default returns the standard metric set for a field.
func Default(f *physics.Field) []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewMeanSpeed(),
		NewMaxSpeed(),
		NewCappedFraction(f.Params().MaxSpeed),
		NewSpeciesSpread(f.World()),
	}
}

// Attach adds the default metrics to s.
func Attach(s *sim.Simulator) {
	for _, m := range Default(s.Field()) {
		s.AddMetric(m)
	}
}
