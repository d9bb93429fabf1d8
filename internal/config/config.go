package config

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/soup/internal/dynamo"
	"github.com/san-kum/soup/internal/physics"
	"github.com/san-kum/soup/internal/render"
)

const (
	DefaultParticles   = 1500
	DefaultSpecies     = 3
	DefaultWidth       = 1280.0
	DefaultHeight      = 720.0
	DefaultDt          = 1.0 / 60
	DefaultSteps       = 600
	DefaultSampleEvery = 10
	DefaultMaxFrameDt  = 1.0 / 30

	DefaultSelf = 1.0
	DefaultHunt = 0.75
	DefaultFlee = -0.25
)

type Config struct {
	Preset      string      `yaml:"preset,omitempty" toml:"preset,omitempty"`
	Particles   int         `yaml:"particles" toml:"particles"`
	Species     int         `yaml:"species" toml:"species"`
	World       WorldConfig `yaml:"world" toml:"world"`
	Forces      ForceConfig `yaml:"forces" toml:"forces"`
	Matrix      [][]float64 `yaml:"matrix" toml:"matrix"`
	Colors      [][]float64 `yaml:"colors" toml:"colors"`
	MaxFrameDt  float64     `yaml:"max_frame_dt" toml:"max_frame_dt"`
	Dt          float64     `yaml:"dt" toml:"dt"`
	Steps       int         `yaml:"steps" toml:"steps"`
	SampleEvery int         `yaml:"sample_every" toml:"sample_every"`
	Workers     int         `yaml:"workers" toml:"workers"`
	Seed        uint64      `yaml:"seed" toml:"seed"`
}

type WorldConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

type ForceConfig struct {
	RMin           float64 `yaml:"r_min" toml:"r_min"`
	RMax           float64 `yaml:"r_max" toml:"r_max"`
	Friction       float64 `yaml:"friction" toml:"friction"`
	ForceScale     float64 `yaml:"force_scale" toml:"force_scale"`
	RepulsionScale float64 `yaml:"repulsion_scale" toml:"repulsion_scale"`
	MaxSpeed       float64 `yaml:"max_speed" toml:"max_speed"`
}

func DefaultForces() ForceConfig {
	p := physics.DefaultParams()
	return ForceConfig{
		RMin:           p.RMin,
		RMax:           p.RMax,
		Friction:       p.Friction,
		ForceScale:     p.ForceScale,
		RepulsionScale: p.RepulsionScale,
		MaxSpeed:       p.MaxSpeed,
	}
}

// DefaultConfig is the three-species rock-paper-scissors soup.
func DefaultConfig() *Config {
	cfg := &Config{
		Preset:      "soup",
		Particles:   DefaultParticles,
		Species:     DefaultSpecies,
		World:       WorldConfig{Width: DefaultWidth, Height: DefaultHeight},
		Forces:      DefaultForces(),
		MaxFrameDt:  DefaultMaxFrameDt,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		SampleEvery: DefaultSampleEvery,
	}
	cfg.fill()
	return cfg
}

// fill derives a matrix and palette for the species count when none is set.
func (c *Config) fill() {
	if len(c.Matrix) == 0 {
		c.Matrix = physics.Cyclic(c.Species, DefaultSelf, DefaultHunt, DefaultFlee)
	}
	if len(c.Colors) == 0 {
		c.Colors = paletteRows(render.PaletteFor(c.Species))
	}
}

func paletteRows(p render.Palette) [][]float64 {
	rows := make([][]float64, len(p))
	for i, c := range p {
		rows[i] = []float64{c[0], c[1], c[2]}
	}
	return rows
}

// Load reads a YAML or TOML file over the defaults. The format follows the
// file extension; anything other than .toml is read as YAML. A file that
// changes the species count without listing a matrix or colors gets them
// derived for the new count.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Matrix, cfg.Colors = nil, nil
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fill()
	return cfg, nil
}

// Save writes cfg as TOML when path ends in .toml and as YAML otherwise.
func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg, isTOML(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func Marshal(cfg *Config, asTOML bool) ([]byte, error) {
	if asTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return data, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func (c *Config) Params() physics.Params {
	return physics.Params{
		RMin:           c.Forces.RMin,
		RMax:           c.Forces.RMax,
		Friction:       c.Forces.Friction,
		ForceScale:     c.Forces.ForceScale,
		RepulsionScale: c.Forces.RepulsionScale,
		MaxSpeed:       c.Forces.MaxSpeed,
	}
}

func (c *Config) WorldBounds() physics.World {
	return physics.World{Width: c.World.Width, Height: c.World.Height}
}

func (c *Config) ForceMatrix() physics.Matrix {
	return physics.Matrix(c.Matrix).Clone()
}

// Palette converts the color rows. Rows that are not RGB triples are left
// zero; Validate reports them.
func (c *Config) Palette() render.Palette {
	p := make(render.Palette, len(c.Colors))
	for i, row := range c.Colors {
		if len(row) == 3 {
			p[i] = render.RGB{row[0], row[1], row[2]}
		}
	}
	return p
}

// Validate checks everything a run needs before the first step.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return &dynamo.ConfigError{Field: "particles", Message: fmt.Sprintf("must be positive, got %d", c.Particles)}
	}
	if c.Species <= 0 {
		return &dynamo.ConfigError{Field: "species", Message: fmt.Sprintf("must be positive, got %d", c.Species)}
	}
	if c.Particles%c.Species != 0 {
		return &dynamo.ConfigError{Field: "particles", Message: fmt.Sprintf("%d not divisible into %d species", c.Particles, c.Species)}
	}
	if err := c.WorldBounds().Validate(); err != nil {
		return err
	}
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if err := c.ForceMatrix().Validate(c.Species); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}
	for i, row := range c.Colors {
		if len(row) != 3 {
			return &dynamo.ConfigError{Field: "colors", Message: fmt.Sprintf("color %d has %d channels, want 3", i, len(row))}
		}
	}
	if len(c.Colors) != c.Species {
		return &dynamo.ConfigError{Field: "colors", Message: fmt.Sprintf("%d colors for %d species", len(c.Colors), c.Species)}
	}
	if err := c.Palette().Validate(c.Species); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}
	if !(c.MaxFrameDt > 0) {
		return &dynamo.ConfigError{Field: "max_frame_dt", Message: fmt.Sprintf("must be positive, got %g", c.MaxFrameDt)}
	}
	if !(c.Dt > 0) {
		return &dynamo.ConfigError{Field: "dt", Message: fmt.Sprintf("must be positive, got %g", c.Dt)}
	}
	if c.Steps <= 0 {
		return &dynamo.ConfigError{Field: "steps", Message: fmt.Sprintf("must be positive, got %d", c.Steps)}
	}
	if c.SampleEvery < 0 {
		return &dynamo.ConfigError{Field: "sample_every", Message: fmt.Sprintf("must not be negative, got %d", c.SampleEvery)}
	}
	return nil
}

// SetSpecies changes the species count and regenerates the matrix and palette
// when their size no longer matches.
func (c *Config) SetSpecies(s int) {
	if s == c.Species && len(c.Matrix) == s && len(c.Colors) == s {
		return
	}
	c.Species = s
	if len(c.Matrix) != s {
		c.Matrix = nil
	}
	if len(c.Colors) != s {
		c.Colors = nil
	}
	if s > 0 {
		c.fill()
	}
}

// Randomize replaces the matrix with coefficients drawn from [-1, 1).
func (c *Config) Randomize(rng *rand.Rand) {
	c.Matrix = physics.RandomMatrix(c.Species, rng)
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Matrix = physics.Matrix(c.Matrix).Clone()
	cp.Colors = make([][]float64, len(c.Colors))
	for i, row := range c.Colors {
		cp.Colors[i] = append([]float64(nil), row...)
	}
	return &cp
}
