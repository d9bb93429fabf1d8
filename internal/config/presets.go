package config

import (
	"sort"

	"github.com/san-kum/soup/internal/physics"
	"github.com/san-kum/soup/internal/render"
)

// Presets are complete, ready-to-run configurations keyed by name.
var Presets = map[string]*Config{
	"soup": DefaultConfig(),
	"duo": preset("duo", 1200, 2, [][]float64{
		{0.6, 1},
		{-1, 0.3},
	}, func(c *Config) {
		c.Forces.Friction = 0.05
	}),
	"hexa": preset("hexa", 1500, 6, physics.Cyclic(6, DefaultSelf, DefaultHunt, DefaultFlee), func(c *Config) {
		c.Forces.RMax = 150
	}),
	"swirl": preset("swirl", 1800, 3, [][]float64{
		{0.2, 1, -0.6},
		{-0.6, 0.2, 1},
		{1, -0.6, 0.2},
	}, func(c *Config) {
		c.Forces.Friction = 0.02
		c.Forces.MaxSpeed = 400
	}),
}

func preset(name string, particles, species int, matrix [][]float64, tweak func(*Config)) *Config {
	c := DefaultConfig()
	c.Preset = name
	c.Particles = particles
	c.Species = species
	c.Matrix = matrix
	c.Colors = paletteRows(render.PaletteFor(species))
	if tweak != nil {
		tweak(c)
	}
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
