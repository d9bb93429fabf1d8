package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	particles  int
	species    int
	seed       uint64
	workers    int
	randomize  bool
	logLevel   string

	steps      int
	dt         float64
	svgPath    string
	metric     string
	outFile    string
	asTOML     bool
	benchRuns  int
	benchSteps int
	sizes      []int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "soup",
		Short: "toroidal multi-species particle life",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(lvl)
			return nil
		},
		RunE: runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".soup", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.IntVar(&particles, "particles", 0, "particle count override")
	pf.IntVar(&species, "species", 0, "species count override")
	pf.Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.IntVar(&workers, "workers", 0, "force workers (0 uses all CPUs)")
	pf.BoolVar(&randomize, "randomize", false, "start from a random force matrix")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "open the simulation in a desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run the simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run headless and save the results",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&steps, "steps", 0, "steps to run (0 uses the config)")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "fixed timestep (0 uses the config)")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final frame as SVG")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a sampled metric of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metric, "metric", "kinetic_energy", "metric to plot")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the plot as SVG")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and series as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the final particles of a run as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [preset]",
		Short: "print or write a full configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  dumpConfig,
	}
	configCmd.Flags().StringVar(&outFile, "out", "", "write to file (format from extension)")
	configCmd.Flags().BoolVar(&asTOML, "toml", false, "print TOML instead of YAML")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "time force evaluation and run a concurrent ensemble",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchmark,
	}
	benchCmd.Flags().IntSliceVar(&sizes, "sizes", []int{600, 1500, 3000}, "population sizes to time")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 60, "steps per measurement")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 4, "ensemble members")

	rootCmd.AddCommand(guiCmd, liveCmd, runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, presetsCmd, configCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
