// Package dynamo provides the core state primitives for the particle simulation.
//
// The package defines the authoritative particle population and the helpers
// shared by every stage that reads or advances it:
//
//   - [Particles]: struct-of-arrays store of positions, velocities and species
//   - [Initialize]: uniform random population with a fixed species partition
//   - [FromPositions]: bulk construction from known coordinates
//   - [ParallelFor]: chunked worker fan-out with a join barrier
//
// # Layout
//
// Every scalar field lives in its own contiguous slice indexed by particle id,
// so bulk passes over one field touch one cache stream:
//
//	p, _ := dynamo.Initialize(1500, 3, 1280, 720, dynamo.NewRand(0))
//	for i := 0; i < p.Len(); i++ {
//	    _ = p.X(i)
//	}
//
// # Thread Safety
//
// Particles is NOT thread-safe. The simulation loop owns it for the duration of a
// frame; readers take a [Particles.Clone] or a packed frame after the update.
package dynamo
