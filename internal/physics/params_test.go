package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/soup/internal/dynamo"
)

func TestDefaultParamsValid(t *testing.T) {
	p := DefaultParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("default params rejected: %v", err)
	}
	if math.Abs(p.Beta()-0.075) > 1e-12 {
		t.Errorf("beta = %g, want 0.075", p.Beta())
	}
	if len(p.GetParams()) != 6 {
		t.Errorf("expected 6 tunables, got %d", len(p.GetParams()))
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"rMin zero", func(p *Params) { p.RMin = 0 }, "r_min"},
		{"rMin equals rMax", func(p *Params) { p.RMin = p.RMax }, "r_min"},
		{"rMin above rMax", func(p *Params) { p.RMin = 300 }, "r_min"},
		{"negative friction", func(p *Params) { p.Friction = -0.1 }, "friction"},
		{"friction one", func(p *Params) { p.Friction = 1 }, "friction"},
		{"zero max speed", func(p *Params) { p.MaxSpeed = 0 }, "max_speed"},
		{"negative force scale", func(p *Params) { p.ForceScale = -1 }, "force_scale"},
		{"negative repulsion", func(p *Params) { p.RepulsionScale = -1 }, "repulsion_scale"},
		{"nan rMax", func(p *Params) { p.RMax = math.NaN() }, "r_max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var cfgErr *dynamo.ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestCyclic(t *testing.T) {
	m := Cyclic(3, 1, 0.75, -0.25)
	want := Matrix{
		{1, 0.75, -0.25},
		{-0.25, 1, 0.75},
		{0.75, -0.25, 1},
	}
	for a := range want {
		for b := range want[a] {
			if m[a][b] != want[a][b] {
				t.Errorf("m[%d][%d] = %g, want %g", a, b, m[a][b], want[a][b])
			}
		}
	}
}

func TestRandomMatrix(t *testing.T) {
	m := RandomMatrix(5, dynamo.NewRand(1))
	if err := m.Validate(5); err != nil {
		t.Fatalf("random matrix invalid: %v", err)
	}
	for a := range m {
		for b := range m[a] {
			if m[a][b] < -1 || m[a][b] >= 1 {
				t.Errorf("m[%d][%d] = %g outside [-1, 1)", a, b, m[a][b])
			}
		}
	}

	c := m.Clone()
	c[0][0] = 42
	if m[0][0] == 42 {
		t.Error("Clone shares rows")
	}
}
