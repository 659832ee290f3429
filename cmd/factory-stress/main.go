package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/plus3/weaver/config"
	"github.com/plus3/weaver/optimizer"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath     string // YAML override file
	logLevel       string // Log verbosity level
	planets        int    // Planets in the synthetic cluster
	linesPerPlanet int    // Production lines generated per planet
	ticks          int    // Ticks to simulate
	seed           int64  // Seed for cluster generation
	workers        int    // Worker pool size, 0 = GOMAXPROCS
	csvPath        string // Per-tick stage timings
	gcPauseMetrics bool   // Include GC pause metrics in the report
)

var rootCmd = &cobra.Command{
	Use:   "factory-stress",
	Short: "Stress test for the optimized factory simulation",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a star cluster and simulate it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg)

		level, err := logrus.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return eris.Wrapf(err, "invalid log level %q", cfg.Logging.Level)
		}
		logrus.SetLevel(level)

		return run(cmd.Context(), cfg)
	},
}

// applyFlags overrides config values with flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("planets") {
		cfg.Stress.Planets = planets
	}
	if flags.Changed("lines") {
		cfg.Stress.LinesPerPlanet = linesPerPlanet
	}
	if flags.Changed("ticks") {
		cfg.Stress.Ticks = ticks
	}
	if flags.Changed("seed") {
		cfg.Stress.Seed = seed
	}
	if flags.Changed("csv") {
		cfg.Stress.CSV = csvPath
	}
	if flags.Changed("workers") && workers > 0 {
		cfg.Scheduler.Parallelism = workers
		cfg.Derived.Workers = workers
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logrus.Infof("Generating %d planets with %d lines each...", cfg.Stress.Planets, cfg.Stress.LinesPerPlanet)
	cluster := generateCluster(cfg.Stress.Planets, cfg.Stress.LinesPerPlanet, cfg.Stress.Seed)

	optimizeStart := time.Now()
	sim := optimizer.NewCluster(cluster, cfg.OptimizerOptions())
	if err := sim.Optimize(); err != nil {
		return err
	}

	report := &Report{
		Planets:        cfg.Stress.Planets,
		Lines:          cfg.Stress.LinesPerPlanet,
		Ticks:          cfg.Stress.Ticks,
		Workers:        cfg.Derived.Workers,
		Seed:           cfg.Stress.Seed,
		GCPauseMetrics: gcPauseMetrics,
		OptimizeTime:   time.Since(optimizeStart),
	}
	for _, p := range sim.Planets() {
		report.SubFactories += len(p.SubFactories())
		report.Unoptimized += len(p.Unoptimized())
	}

	telemetry, err := newTelemetry(cfg.Stress.CSV)
	if err != nil {
		return err
	}
	defer telemetry.Close()

	runtime.ReadMemStats(&report.MemStatsStart)
	logrus.Infof("Running %d ticks on %d workers...", cfg.Stress.Ticks, cfg.Derived.Workers)

	startTime := time.Now()
	for tick := range int64(cfg.Stress.Ticks) {
		sim.ResetStats()
		tickStart := time.Now()
		if err := sim.GameTick(ctx, tick); err != nil {
			return err
		}
		report.TickTime.Samples = append(report.TickTime.Samples, time.Since(tickStart))
		report.addStages(sim.Stats())
		if err := telemetry.Write(tick, sim.Stats()); err != nil {
			return err
		}
	}
	report.TotalTime = time.Since(startTime)
	sim.Save()
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.collectProduction(cluster)
	report.TickTime.Finalize()

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return eris.Wrap(err, "generating report")
	}
	fmt.Println("--- End of Report ---")
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(eris.ToString(err, true))
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML file overriding the embedded defaults")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().IntVar(&planets, "planets", 4, "Number of planets")
	runCmd.Flags().IntVar(&linesPerPlanet, "lines", 200, "Production lines per planet")
	runCmd.Flags().IntVar(&ticks, "ticks", 600, "Number of ticks to simulate")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "Seed for cluster generation")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Worker goroutines (0 = config or GOMAXPROCS)")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "Write per-tick stage timings to this CSV file")
	runCmd.Flags().BoolVar(&gcPauseMetrics, "gc-pause-metrics", false, "Enable detailed GC pause metrics in the report")

	rootCmd.AddCommand(runCmd)
}

func main() {
	Execute()
}
