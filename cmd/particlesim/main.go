package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlesim/internal/bvh"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/particle"
	"github.com/san-kum/particlesim/internal/scenario"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/tui"
	"github.com/san-kum/particlesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dt         float64
	ticks      int
	count      int
	seed       int64
	speed      float64
	gravityY   float64
	pairs      string
	broadPhase string
	// Config file
	configFile string
	// Preset name
	preset  string
	plot    bool
	verbose bool
	// Frame rate for watch
	frameRate int
	pace      time.Duration
	backend   string
	// trace output
	format string
	out    string
	// bench
	benchTicks int
	// sweep
	sweepParams []string
	objective   string
	maximize    bool
	top         int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "particlesim",
		Short: "2D particle collision simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(config.DefaultConfig())
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run simulation and print metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot kinetic energy over time")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	watchCmd := &cobra.Command{
		Use:   "watch [scenario]",
		Short: "stream frames to the terminal while running",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	addSimFlags(watchCmd)
	watchCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	watchCmd.Flags().DurationVar(&pace, "pace", 16*time.Millisecond, "wall time per tick")
	watchCmd.Flags().StringVar(&backend, "backend", "ansi", "renderer (ansi, tcell)")

	traceCmd := &cobra.Command{
		Use:   "trace [scenario]",
		Short: "run simulation and write frames",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrace,
	}
	addSimFlags(traceCmd)
	traceCmd.Flags().StringVar(&format, "format", "csv", "output format (csv, json, msgpack, svg, trajectory)")
	traceCmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare broad phases on growing particle counts",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 100, "ticks per run")
	benchCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "grid search over run parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVarP(&sweepParams, "param", "p", nil, "parameter values, e.g. dt=0.004,0.008 (repeatable)")
	sweepCmd.Flags().StringVar(&objective, "metric", "energy_drift", "metric to rank by")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "rank by largest metric")
	sweepCmd.Flags().IntVar(&top, "top", 10, "rows to print (0 for all)")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list available scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := scenario.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range reg.List() {
				fmt.Fprintf(w, "%s\t%s\n", name, reg.Describe(name))
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [scenario]",
		Short: "print the effective config as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printConfig,
	}
	addSimFlags(configCmd)
	configCmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(runCmd, liveCmd, watchCmd, traceCmd, benchCmd, sweepCmd, scenariosCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", sim.DefaultDt, "timestep")
	cmd.Flags().IntVar(&ticks, "ticks", sim.DefaultTicks, "number of ticks")
	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "particle count (gas, lattice, anchor)")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "initial speed scale")
	cmd.Flags().Float64Var(&gravityY, "gravity-y", 0, "vertical acceleration")
	cmd.Flags().StringVar(&pairs, "pairs", sim.PairsDedupe.String(), "pair policy (dedupe, both)")
	cmd.Flags().StringVar(&broadPhase, "broad-phase", "bvh", "broad phase ("+strings.Join(bvh.BroadPhaseNames(), ", ")+")")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// loadConfig resolves defaults, then the preset, then the config file, then
// any flag set on the command line.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			loaded.Scenario = args[0]
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = ticks
	}
	if cmd.Flags().Changed("count") {
		cfg.Init.Count = count
	}
	if cmd.Flags().Changed("seed") {
		cfg.Init.Seed = seed
	}
	if cmd.Flags().Changed("speed") {
		cfg.Init.Speed = speed
	}
	if cmd.Flags().Changed("gravity-y") {
		cfg.Gravity[1] = gravityY
	}
	if cmd.Flags().Changed("pairs") {
		cfg.Pairs = pairs
	}
	if cmd.Flags().Changed("broad-phase") {
		cfg.BroadPhase = broadPhase
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("config resolved",
		"scenario", cfg.Scenario, "preset", preset, "file", configFile,
		"dt", cfg.Dt, "ticks", cfg.Ticks, "count", cfg.Init.Count, "broad_phase", cfg.BroadPhase)
	return cfg, nil
}

func setup(cmd *cobra.Command, args []string) (*experiment.Experiment, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp, nil
}

// execute runs the experiment until done or interrupted. A run stopped by an
// invalid particle still yields its partial result.
func execute(exp *experiment.Experiment) (*sim.Result, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := exp.Run(ctx)
	var simErr *sim.SimError
	switch {
	case errors.As(err, &simErr):
		slog.Warn("run stopped early", "tick", simErr.Tick, "particle", simErr.Particle, "err", simErr.Wrapped)
		return result, nil
	case errors.Is(err, context.Canceled):
		slog.Info("run interrupted", "ticks", exp.World().Tick())
		return result, nil
	}
	return result, err
}

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd, args)
	if err != nil {
		return err
	}
	cfg := exp.Config()

	fmt.Printf("running %s simulation (%d particles, %s)...\n",
		cfg.Scenario, len(exp.World().Particles()), cfg.BroadPhase)
	start := time.Now()

	result, err := execute(exp)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("ticks: %d\n", result.StepsTaken)
	fmt.Printf("candidates: %d\n", result.Totals.Candidates)
	fmt.Printf("contacts: %d\n", result.Totals.Contacts)
	fmt.Printf("wall hits: %d\n", result.Totals.WallHits)
	fmt.Printf("energy drift: %.6f\n", result.EnergyDrift)

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, result.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if plot && len(result.Frames) > 1 {
		data := make([]float64, len(result.Frames))
		for i, f := range result.Frames {
			data[i] = frameEnergy(f.Particles)
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy"),
		))
	}
	return nil
}

func frameEnergy(ps []particle.State) float64 {
	var e float64
	for _, p := range ps {
		if p.Kind == particle.Fixed {
			continue
		}
		e += 0.5 * p.Mass * p.Velocity.Dot(p.Velocity)
	}
	return e
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd, args)
	if err != nil {
		return err
	}
	m := viz.NewModel(exp.World(), exp.Config().Scenario, exp.Particles)
	return viz.Run(m)
}

// pacer slows a run down to roughly one tick per interval.
type pacer struct {
	interval time.Duration
	last     time.Time
}

func (p *pacer) OnStep([]particle.Particle, sim.Stats, float64) {
	if wait := p.interval - time.Since(p.last); wait > 0 {
		time.Sleep(wait)
	}
	p.last = time.Now()
}

func runWatch(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd, args)
	if err != nil {
		return err
	}
	cfg := exp.Config()
	s := exp.GetSimulator()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	switch backend {
	case "ansi":
		r := tui.NewLiveRenderer(os.Stdout, cfg.Scenario, cfg.Bound, frameRate)
		r.Start()
		defer r.Stop()
		s.AddObserver(r)
	case "tcell":
		screen, err := tui.OpenScreen()
		if err != nil {
			return err
		}
		r := tui.NewScreenRenderer(screen, cfg.Scenario, cfg.Bound, frameRate)
		defer r.Close()
		go r.Listen(ctx, cancel)
		s.AddObserver(r)
	default:
		return fmt.Errorf("unknown backend: %s (available: ansi, tcell)", backend)
	}
	if pace > 0 {
		s.AddObserver(&pacer{interval: pace})
	}

	result, err := s.Run(ctx)
	var simErr *sim.SimError
	if errors.As(err, &simErr) || errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		return err
	}
	if result != nil {
		slog.Info("watch finished", "ticks", result.StepsTaken, "contacts", result.Totals.Contacts)
	}
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd, args)
	if err != nil {
		return err
	}

	result, err := execute(exp)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	cfg := exp.Config()
	if out != "" {
		err = writeTraceFile(out, format, cfg, exp.World(), result)
	} else {
		err = writeTrace(os.Stdout, format, cfg, exp.World(), result)
	}
	if err != nil {
		return err
	}
	slog.Debug("trace written", "format", format, "frames", len(result.Frames), "out", out)
	return nil
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if out != "" {
		if err := config.Save(out, cfg); err != nil {
			return err
		}
		fmt.Printf("config written to %s\n", out)
		return nil
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runBench(cmd *cobra.Command, args []string) error {
	counts := []int{100, 250, 500, 1000}

	fmt.Printf("benchmarking broad phases, %d ticks per run\n\n", benchTicks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COUNT\tBROAD\tCANDIDATES\tCONTACTS\tTIME\tTICKS/SEC")

	for _, n := range counts {
		for _, name := range bvh.BroadPhaseNames() {
			cfg := config.DefaultConfig()
			cfg.Scenario = "gas"
			cfg.Init.Count = n
			cfg.Init.Seed = seed
			// constant density across counts
			cfg.Bound = math.Sqrt(float64(n)) / 10
			cfg.Ticks = benchTicks
			cfg.SampleEvery = 0
			cfg.BroadPhase = name

			exp := experiment.New(cfg)
			if err := exp.Setup(); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			rate := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%v\t%.0f\n",
				n, name, result.Totals.Candidates, result.Totals.Contacts,
				elapsed.Round(time.Microsecond), rate)
		}
	}

	return w.Flush()
}
