package dynamo

import (
	"fmt"
	"math/rand/v2"
)

// Particles is the struct-of-arrays particle population. Each scalar field is a
// separate slice indexed by particle id; the population size and species tags
// never change after construction.
type Particles struct {
	posX    []float64
	posY    []float64
	velX    []float64
	velY    []float64
	species []int

	speciesCount int
}

// NewRand returns a PCG generator. A zero seed draws both PCG words from the
// runtime's randomly seeded source, so runs are not reproducible.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Initialize creates count particles spread uniformly over [0,width)×[0,height)
// with zero velocity. Species are assigned in equal contiguous groups:
// species[i] = i / (count / speciesCount).
func Initialize(count, speciesCount int, width, height float64, rng *rand.Rand) (*Particles, error) {
	if count <= 0 {
		return nil, &ConfigError{Field: "particles", Message: fmt.Sprintf("must be positive, got %d", count)}
	}
	if speciesCount <= 0 {
		return nil, &ConfigError{Field: "species", Message: fmt.Sprintf("must be positive, got %d", speciesCount)}
	}
	if count%speciesCount != 0 {
		return nil, &ConfigError{Field: "particles", Message: fmt.Sprintf("%d not divisible into %d species", count, speciesCount)}
	}
	if width <= 0 || height <= 0 {
		return nil, &ConfigError{Field: "world", Message: fmt.Sprintf("extent must be positive, got %gx%g", width, height)}
	}

	p := newParticles(count, speciesCount)
	perSpecies := count / speciesCount
	for i := 0; i < count; i++ {
		p.posX[i] = uniform(rng, width)
		p.posY[i] = uniform(rng, height)
		p.species[i] = i / perSpecies
	}
	return p, nil
}

// uniform draws from [0, extent); Float64 is in [0,1) but the product can round
// up to extent itself.
func uniform(rng *rand.Rand, extent float64) float64 {
	v := rng.Float64() * extent
	if v >= extent {
		return 0
	}
	return v
}

// FromPositions builds a population at known coordinates with zero velocity.
// speciesCount is derived from the largest tag.
func FromPositions(xs, ys []float64, species []int) (*Particles, error) {
	if len(xs) != len(ys) || len(xs) != len(species) {
		return nil, fmt.Errorf("%w: %d x, %d y, %d species", ErrDimensionMismatch, len(xs), len(ys), len(species))
	}
	if len(xs) == 0 {
		return nil, &ConfigError{Field: "particles", Message: "empty population"}
	}

	maxSpecies := 0
	for i, s := range species {
		if s < 0 {
			return nil, &ConfigError{Field: "species", Message: fmt.Sprintf("particle %d has negative species %d", i, s)}
		}
		if s > maxSpecies {
			maxSpecies = s
		}
	}

	p := newParticles(len(xs), maxSpecies+1)
	copy(p.posX, xs)
	copy(p.posY, ys)
	copy(p.species, species)
	return p, nil
}

func newParticles(n, speciesCount int) *Particles {
	return &Particles{
		posX:         make([]float64, n),
		posY:         make([]float64, n),
		velX:         make([]float64, n),
		velY:         make([]float64, n),
		species:      make([]int, n),
		speciesCount: speciesCount,
	}
}

func (p *Particles) Len() int          { return len(p.posX) }
func (p *Particles) SpeciesCount() int { return p.speciesCount }

func (p *Particles) X(i int) float64  { return p.posX[i] }
func (p *Particles) Y(i int) float64  { return p.posY[i] }
func (p *Particles) VX(i int) float64 { return p.velX[i] }
func (p *Particles) VY(i int) float64 { return p.velY[i] }
func (p *Particles) Species(i int) int { return p.species[i] }

// Positions returns the backing position columns. Only the integrator writes
// through them; everyone else treats them as read-only.
func (p *Particles) Positions() (xs, ys []float64) { return p.posX, p.posY }

// Velocities returns the backing velocity columns, same contract as Positions.
func (p *Particles) Velocities() (vx, vy []float64) { return p.velX, p.velY }

// Tags returns the backing species column. It is never written after construction.
func (p *Particles) Tags() []int { return p.species }

// Clone returns an independent value copy.
func (p *Particles) Clone() *Particles {
	c := newParticles(p.Len(), p.speciesCount)
	copy(c.posX, p.posX)
	copy(c.posY, p.posY)
	copy(c.velX, p.velX)
	copy(c.velY, p.velY)
	copy(c.species, p.species)
	return c
}

// WithVelocities returns a copy carrying the given velocities, for scenarios that
// start from a moving population.
func (p *Particles) WithVelocities(vx, vy []float64) (*Particles, error) {
	if len(vx) != p.Len() || len(vy) != p.Len() {
		return nil, fmt.Errorf("%w: %d particles, %d vx, %d vy", ErrDimensionMismatch, p.Len(), len(vx), len(vy))
	}
	c := p.Clone()
	copy(c.velX, vx)
	copy(c.velY, vy)
	return c, nil
}

// CountBySpecies returns the population of each species.
func (p *Particles) CountBySpecies() []int {
	counts := make([]int, p.speciesCount)
	for _, s := range p.species {
		counts[s]++
	}
	return counts
}
