package physics

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/soup/internal/dynamo"
)

// Matrix holds the species interaction biases; Matrix[a][b] is how strongly
// species a is drawn toward species b inside the outer zone. Positive attracts,
// negative repels, and the matrix need not be symmetric.
type Matrix [][]float64

// NewMatrix returns an s×s zero matrix.
func NewMatrix(s int) Matrix {
	m := make(Matrix, s)
	for i := range m {
		m[i] = make([]float64, s)
	}
	return m
}

// Cyclic builds the rock-paper-scissors pattern: every species is drawn to
// itself with self, chases the next species with hunt, and shies away from the
// previous one with flee. Species further away in the cycle feel nothing.
func Cyclic(s int, self, hunt, flee float64) Matrix {
	m := NewMatrix(s)
	for a := 0; a < s; a++ {
		m[a][a] = self
		if s > 1 {
			m[a][(a+1)%s] += hunt
			m[a][(a+s-1)%s] += flee
		}
	}
	return m
}

// RandomMatrix draws every coefficient uniformly from [-1, 1).
func RandomMatrix(s int, rng *rand.Rand) Matrix {
	m := NewMatrix(s)
	for a := range m {
		for b := range m[a] {
			m[a][b] = rng.Float64()*2 - 1
		}
	}
	return m
}

func (m Matrix) Size() int { return len(m) }

func (m Matrix) Clone() Matrix {
	c := make(Matrix, len(m))
	for i, row := range m {
		c[i] = append([]float64(nil), row...)
	}
	return c
}

// Validate checks that m is s×s with finite coefficients.
func (m Matrix) Validate(s int) error {
	if len(m) != s {
		return fmt.Errorf("%w: matrix has %d rows, want %d", dynamo.ErrDimensionMismatch, len(m), s)
	}
	for a, row := range m {
		if len(row) != s {
			return fmt.Errorf("%w: matrix row %d has %d columns, want %d", dynamo.ErrDimensionMismatch, a, len(row), s)
		}
		for b, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &dynamo.ConfigError{Field: "matrix", Message: fmt.Sprintf("[%d][%d] must be finite, got %v", a, b, v)}
			}
		}
	}
	return nil
}

// flatten lays the matrix out row-major for the force loop.
func (m Matrix) flatten() []float64 {
	s := len(m)
	flat := make([]float64, s*s)
	for a, row := range m {
		copy(flat[a*s:], row)
	}
	return flat
}
