package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/soup/internal/config"
	"github.com/san-kum/soup/internal/dynamo"
	"github.com/san-kum/soup/internal/metrics"
	"github.com/san-kum/soup/internal/sim"
)

// presetName picks the positional preset, then --preset, then the default.
func presetName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if preset != "" {
		return preset
	}
	return "soup"
}

// loadConfig resolves the preset or config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		name := presetName(args)
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("species") {
		cfg.SetSpecies(species)
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if randomize {
		cfg.Randomize(dynamo.NewRand(cfg.Seed))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debug("config resolved", "preset", cfg.Preset, "particles", cfg.Particles, "species", cfg.Species, "seed", cfg.Seed)
	return cfg, nil
}

// benchSize rounds n down to a whole number of particles per species, keeping
// at least one of each.
func benchSize(n, species int) int {
	if n < species {
		return species
	}
	return n - n%species
}

// newSimulator builds a simulator for cfg with the default metrics attached.
func newSimulator(cfg *config.Config) (*sim.Simulator, error) {
	s, err := sim.FromConfig(cfg, dynamo.NewRand(cfg.Seed))
	if err != nil {
		return nil, err
	}
	metrics.Attach(s)
	return s, nil
}
