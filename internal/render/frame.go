// Package render turns a particle population into the packed per-frame buffer
// consumed by the presentation layers.
//
// A Frame is laid out like an RGBA32F texture two rows high and one texel per
// particle wide:
//
//	row 0: x, y, 0, 0
//	row 1: r, g, b, 1
//
// Species never change, so row 1 is filled once per Packer and only copied.
package render

import (
	"sync"

	"github.com/san-kum/soup/internal/dynamo"
)

// TexelSize is the number of float32 channels per texel.
const TexelSize = 4

type Frame struct {
	Texels []float32
	N      int
	Time   float64
	Step   int
}

// Position returns the packed position of particle i.
func (f *Frame) Position(i int) (float32, float32) {
	o := i * TexelSize
	return f.Texels[o], f.Texels[o+1]
}

// Color returns the packed color of particle i.
func (f *Frame) Color(i int) (float32, float32, float32) {
	o := (f.N + i) * TexelSize
	return f.Texels[o], f.Texels[o+1], f.Texels[o+2]
}

// Clone returns an independent copy of f.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Texels = append([]float32(nil), f.Texels...)
	return &c
}

// Packer builds frames for a fixed population. It is safe for concurrent use.
type Packer struct {
	n        int
	colorRow []float32
	pool     sync.Pool
}

// NewPacker precomputes the color row from the species tags of p.
func NewPacker(p *dynamo.Particles, palette Palette) (*Packer, error) {
	if err := palette.Validate(p.SpeciesCount()); err != nil {
		return nil, err
	}
	n := p.Len()
	row := make([]float32, n*TexelSize)
	for i := 0; i < n; i++ {
		c := palette[p.Species(i)]
		o := i * TexelSize
		row[o] = float32(c[0])
		row[o+1] = float32(c[1])
		row[o+2] = float32(c[2])
		row[o+3] = 1
	}

	pk := &Packer{n: n, colorRow: row}
	pk.pool.New = func() any {
		return &Frame{Texels: make([]float32, 2*n*TexelSize), N: n}
	}
	return pk, nil
}

func (pk *Packer) Len() int { return pk.n }

// Pack snapshots the positions of p into a pooled frame. The caller hands the
// frame back with Release once it is done with it.
func (pk *Packer) Pack(p *dynamo.Particles) *Frame {
	f := pk.pool.Get().(*Frame)
	xs, ys := p.Positions()
	for i := 0; i < pk.n; i++ {
		o := i * TexelSize
		f.Texels[o] = float32(xs[i])
		f.Texels[o+1] = float32(ys[i])
		f.Texels[o+2] = 0
		f.Texels[o+3] = 0
	}
	copy(f.Texels[pk.n*TexelSize:], pk.colorRow)
	return f
}

// Release returns f to the pool. Frames of a different size are dropped.
func (pk *Packer) Release(f *Frame) {
	if f == nil || f.N != pk.n || len(f.Texels) != 2*pk.n*TexelSize {
		return
	}
	f.Time, f.Step = 0, 0
	pk.pool.Put(f)
}
