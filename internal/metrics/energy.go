package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/soup/internal/dynamo"
)

// speeds fills buf with |v| for every particle, growing it as needed.
func speeds(p *dynamo.Particles, buf []float64) []float64 {
	vx, vy := p.Velocities()
	if cap(buf) < len(vx) {
		buf = make([]float64, len(vx))
	}
	buf = buf[:len(vx)]
	for i := range vx {
		buf[i] = math.Hypot(vx[i], vy[i])
	}
	return buf
}

// KineticEnergy is the mean of ½|v|² over the population, unit mass.
type KineticEnergy struct {
	name  string
	buf   []float64
	value float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(p *dynamo.Particles, t float64) {
	vx, vy := p.Velocities()
	if cap(k.buf) < len(vx) {
		k.buf = make([]float64, len(vx))
	}
	k.buf = k.buf[:len(vx)]
	for i := range vx {
		k.buf[i] = 0.5 * (vx[i]*vx[i] + vy[i]*vy[i])
	}
	k.value = stat.Mean(k.buf, nil)
}

func (k *KineticEnergy) Value() float64 { return k.value }
func (k *KineticEnergy) Reset()         { k.value = 0 }

type MeanSpeed struct {
	name  string
	buf   []float64
	value float64
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(p *dynamo.Particles, t float64) {
	m.buf = speeds(p, m.buf)
	m.value = stat.Mean(m.buf, nil)
}

func (m *MeanSpeed) Value() float64 { return m.value }
func (m *MeanSpeed) Reset()         { m.value = 0 }

type MaxSpeed struct {
	name  string
	buf   []float64
	value float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(p *dynamo.Particles, t float64) {
	m.buf = speeds(p, m.buf)
	if len(m.buf) == 0 {
		m.value = 0
		return
	}
	m.value = floats.Max(m.buf)
}

func (m *MaxSpeed) Value() float64 { return m.value }
func (m *MaxSpeed) Reset()         { m.value = 0 }

// CappedFraction is the share of particles moving at the speed cap.
type CappedFraction struct {
	name     string
	maxSpeed float64
	buf      []float64
	value    float64
}

func NewCappedFraction(maxSpeed float64) *CappedFraction {
	return &CappedFraction{name: "capped_fraction", maxSpeed: maxSpeed}
}

func (c *CappedFraction) Name() string { return c.name }

func (c *CappedFraction) Observe(p *dynamo.Particles, t float64) {
	c.buf = speeds(p, c.buf)
	if len(c.buf) == 0 {
		c.value = 0
		return
	}
	threshold := c.maxSpeed * (1 - 1e-9)
	capped := 0
	for _, s := range c.buf {
		if s >= threshold {
			capped++
		}
	}
	c.value = float64(capped) / float64(len(c.buf))
}

func (c *CappedFraction) Value() float64 { return c.value }
func (c *CappedFraction) Reset()         { c.value = 0 }
