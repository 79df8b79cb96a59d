package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/patrol-sim/patrol-sim/sim"
	"github.com/patrol-sim/patrol-sim/sim/synth"
	"github.com/patrol-sim/patrol-sim/sim/trace"
)

var (
	configPath  string // YAML file overlaid on the embedded defaults
	seed        int64  // Seed for every random draw of the run
	logLevel    string // Log verbosity level
	outputDir   string // Directory for CSV snapshot files
	format      string // csv, sqlite or both
	sqlitePath  string // SQLite database file
	metricsFile string // Prometheus textfile written after the run
	traceLevel  string // Dispatch decision tracing
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "patrol-sim",
	Short: "Discrete-event simulator of police staffing and patrol dispatch",
}

// runCmd executes the simulation using the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the patrol simulation and export its snapshots",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := loadConfig(configPath)
		if err != nil {
			logrus.Fatalf("Failed to load config: %v", err)
		}
		applyFlagOverrides(cmd, &cfg)

		if _, err := runSimulation(cfg, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// defaultsCmd prints the embedded defaults, a starting point for --config files
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default configuration as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := cmd.OutOrStdout().Write(embeddedDefaults); err != nil {
			logrus.Fatalf("Failed to write defaults: %v", err)
		}
	},
}

// applyFlagOverrides copies explicitly set flags over file values.
func applyFlagOverrides(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("output") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("sqlite-path") {
		cfg.Output.SQLitePath = sqlitePath
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile = metricsFile
	}
	if flags.Changed("trace-level") {
		cfg.Output.TraceLevel = traceLevel
	}
}

// runSimulation wires the generator, places and sinks, runs to the terminal snapshot
// and prints the metrics to w.
func runSimulation(cfg Config, w io.Writer) (*sim.Simulator, error) {
	runID := uuid.New()
	log := logrus.WithFields(logrus.Fields{"run_id": runID.String(), "seed": cfg.Seed})

	tables, err := synth.DefaultTables()
	if err != nil {
		return nil, fmt.Errorf("load frequency tables: %w", err)
	}
	places, err := synth.DefaultPlaces()
	if err != nil {
		return nil, fmt.Errorf("load places: %w", err)
	}
	generator, err := synth.NewGenerator(cfg.Generator, tables)
	if err != nil {
		return nil, err
	}
	sink, closeSink, err := buildSink(cfg.Output, runID)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	defer func() {
		if err := closeSink(); err != nil {
			log.Warnf("Failed to close output: %v", err)
		}
	}()

	s, err := sim.NewSimulator(cfg.Simulation, sim.NewSimulationKey(cfg.Seed), generator, places, sink)
	if err != nil {
		return nil, err
	}
	log.Infof("Starting simulation at %s with %d policemen, %d vehicles, %d snapshots, output %s",
		cfg.Simulation.StartTime.Format(time.RFC3339), cfg.Simulation.PolicemenCount,
		cfg.Simulation.VehiclesCount, len(cfg.Simulation.Snapshots), cfg.Output.Format)

	if trace.TraceLevel(cfg.Output.TraceLevel) == trace.TraceLevelDecisions {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	}

	startTime := time.Now()
	if err := s.Bootstrap(); err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return s, err
	}
	s.Metrics.Print(w, time.Since(startTime))
	if s.Trace != nil {
		printTraceSummary(w, trace.Summarize(s.Trace))
	}

	if cfg.Output.MetricsFile != "" {
		if err := writeMetricsTextfile(cfg.Output.MetricsFile, s.Metrics, runID, cfg.Seed); err != nil {
			return s, fmt.Errorf("write metrics file: %w", err)
		}
		log.Infof("Metrics written to %s", cfg.Output.MetricsFile)
	}
	return s, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML config overlaid on the built-in defaults (see `patrol-sim defaults`)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for every random draw of the run")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&outputDir, "output", "output", "Directory for CSV snapshot files")
	runCmd.Flags().StringVar(&format, "format", FormatCSV, "Snapshot output format (csv, sqlite, both)")
	runCmd.Flags().StringVar(&sqlitePath, "sqlite-path", "output/patrols.db", "SQLite database for snapshots")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write run counters to this Prometheus textfile")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Dispatch decision tracing (none, decisions)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(defaultsCmd)
}
