// Package physics provides the particle-life force field and its integrator.
//
// Every particle feels every other particle through a zoned radial force:
//
//   - inner zone (distance < rMin): species-blind linear repulsion
//   - outer zone (rMin ≤ distance < rMax): force-matrix bias shaped by a
//     triangle wave that vanishes at both zone edges
//   - beyond rMax: nothing
//
// Distances use the minimum-image convention of a toroidal [World], and the
// [Integrator] wraps positions back into the world after every step.
//
// # Usage
//
//	field, err := physics.NewField(physics.DefaultParams(), matrix, world, 0)
//	if err != nil {
//	    return err
//	}
//	integ := physics.NewIntegrator(field)
//	integ.Step(particles, dt)
//
// # Determinism
//
// Forces are accumulated per particle in index order regardless of how many
// workers share the outer loop, so serial and parallel runs agree bit for bit.
package physics
