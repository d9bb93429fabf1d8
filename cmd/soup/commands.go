package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/soup/internal/config"
	"github.com/san-kum/soup/internal/dynamo"
	"github.com/san-kum/soup/internal/export"
	"github.com/san-kum/soup/internal/gui"
	"github.com/san-kum/soup/internal/metrics"
	"github.com/san-kum/soup/internal/sim"
	"github.com/san-kum/soup/internal/storage"
	"github.com/san-kum/soup/internal/viz"
)

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	return gui.Run(s, presetName(args), dynamo.NewRand(0))
}

func runLive(cmd *cobra.Command, args []string) error {
	interactive := len(args) == 0 && preset == "" && configFile == ""
	if interactive {
		build := func(name string) (*sim.Simulator, error) {
			cfg, err := loadConfig(cmd, []string{name})
			if err != nil {
				return nil, err
			}
			return newSimulator(cfg)
		}
		return viz.RunInteractive(config.ListPresets(), build, dynamo.NewRand(0))
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	return viz.Run(s, presetName(args), dynamo.NewRand(0))
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if steps > 0 {
		cfg.Steps = steps
	}
	if dt > 0 {
		cfg.Dt = dt
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	name := presetName(args)
	fmt.Printf("running %s: %d particles, %d species, %d steps...\n", name, cfg.Particles, cfg.Species, cfg.Steps)
	result, err := s.Run(ctx, cfg.Steps, cfg.Dt)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		log.Warn("run interrupted, saving partial result", "steps", result.Steps, "err", err)
	}

	runID, err := st.Save(cfg.Seed, cfg, result, s.Particles())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%.2fs simulated)\n", result.Steps, result.Time)
	fmt.Println("\nmetrics:")
	for _, name := range metrics.Names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if svgPath != "" {
		f := s.Frame()
		defer s.Release(f)
		w := s.Field().World()
		if err := os.WriteFile(svgPath, []byte(export.FrameToSVG(f, w.Width, w.Height, 2)), 0644); err != nil {
			return err
		}
		log.Info("wrote frame", "path", svgPath)
	}
	return nil
}

// resolveRun returns the given run id or the most recent one.
func resolveRun(st *storage.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	meta, err := st.Latest()
	if err != nil {
		return "", err
	}
	return meta.ID, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tPARTICLES\tSPECIES\tSTEPS\tSIM TIME")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.2fs\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Species,
			run.Steps,
			run.SimTime,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	data, ok := series[metric]
	if !ok || len(data) == 0 {
		return fmt.Errorf("no samples for metric %q", metric)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(data))

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(metric+" vs time"),
	)
	fmt.Println(graph)

	if svgPath != "" {
		svg := export.SeriesToSVG(times, data, 800, 300, "#00ff88")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		log.Info("wrote plot", "path", svgPath)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	return st.ExportJSON(os.Stdout, runID)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	records, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"id", "species", "x", "y", "vx", "vy"}); err != nil {
		return err
	}
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, r := range records {
		row := []string{strconv.Itoa(r.ID), strconv.Itoa(r.Species), format(r.X), format(r.Y), format(r.VX), format(r.VY)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPARTICLES\tSPECIES\tR_MAX\tFRICTION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f\t%.3f\n", name, cfg.Particles, cfg.Species, cfg.Forces.RMax, cfg.Forces.Friction)
	}
	return w.Flush()
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if outFile != "" {
		if err := config.Save(outFile, cfg); err != nil {
			return err
		}
		log.Info("wrote config", "path", outFile)
		return nil
	}
	data, err := config.Marshal(cfg, asTOML)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func benchmark(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	frameDt := base.Dt

	fmt.Printf("benchmarking %s (%d workers)\n\n", presetName(args), dynamo.Workers(base.Workers))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSTEPS\tTIME\tMS/STEP\tSTEPS/SEC")

	for _, n := range sizes {
		cfg := base.Clone()
		cfg.Particles = benchSize(n, cfg.Species)
		s, err := sim.FromConfig(cfg, dynamo.NewRand(cfg.Seed))
		if err != nil {
			return err
		}
		log.Debug("timing", "particles", cfg.Particles)

		start := time.Now()
		for i := 0; i < benchSteps; i++ {
			if _, err := s.Step(frameDt); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)
		perStep := elapsed.Seconds() / float64(benchSteps)
		fmt.Fprintf(w, "%d\t%d\t%v\t%.2f\t%.0f\n", cfg.Particles, benchSteps, elapsed.Round(time.Millisecond), perStep*1000, 1/perStep)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	// Members share the CPU, so each runs its forces serially.
	ens := base.Clone()
	ens.Workers = 1
	ensemble := sim.NewEnsemble(sim.ConfigFactory(ens, metrics.Attach), benchRuns, base.Seed, dynamo.Workers(base.Workers))

	fmt.Printf("\nensemble: %d runs of %d steps\n", benchRuns, benchSteps)
	start := time.Now()
	results, err := ensemble.Run(cmd.Context(), benchSteps, frameDt)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start).Round(time.Millisecond))

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tKINETIC\tMEAN SPEED\tSPREAD")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\n", base.Seed+uint64(i), r.Metrics["kinetic_energy"], r.Metrics["mean_speed"], r.Metrics["species_spread"])
	}
	return w.Flush()
}
