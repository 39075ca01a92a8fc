package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/projectile/internal/config"
	"github.com/san-kum/projectile/internal/export"
	"github.com/san-kum/projectile/internal/metrics"
	"github.com/san-kum/projectile/internal/optim"
	"github.com/san-kum/projectile/internal/sim"
	"github.com/san-kum/projectile/internal/viz"
	"github.com/san-kum/projectile/internal/world"
	"github.com/san-kum/projectile/internal/world/chipmunk"
	"github.com/spf13/cobra"
)

var (
	// Config file
	configFile string
	// Preset name
	preset  string
	verbose bool

	angle   float64
	force   float64
	wind    float64
	gravity string
	steps   int

	// Frame rate for live view
	frameRate int
	logFile   string

	plot    bool
	format  string
	outFile string

	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepBy    float64

	optMetric   string
	optMinimize bool
	optGrid     map[string]string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd registers every command and resets the flag variables to
// their defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "projectile",
		Short:        "projectile launch sandbox",
		SilenceUsage: true,
		// Default to the live view when no command is given
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log diagnostics")
	pf.Float64Var(&angle, "angle", config.DefaultConfig().Params.Angle, "launch angle in degrees")
	pf.Float64Var(&force, "force", config.DefaultConfig().Params.Force, "launch force")
	pf.Float64Var(&wind, "wind", config.DefaultConfig().Params.Wind, "wind strength")
	pf.StringVar(&gravity, "gravity", config.DefaultConfig().Params.Gravity, "gravity profile (earth, moon, mars)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless launch",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of physics steps")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the flight height")
	runCmd.Flags().StringVar(&format, "format", "", "write frames as csv, json or svg")
	runCmd.Flags().StringVarP(&outFile, "out", "o", "", "report file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive launch sandbox",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
		c.Flags().StringVar(&logFile, "log", "", "write diagnostics to this file")
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one launch per value of a parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "angle", "parameter to vary (angle, force, wind)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 15, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 75, "last value")
	sweepCmd.Flags().Float64Var(&sweepBy, "by", 15, "increment")
	sweepCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of physics steps")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search launch settings for the best metric",
		Args:  cobra.NoArgs,
		RunE:  runOptimize,
	}
	optimizeCmd.Flags().StringVar(&optMetric, "metric", "range", "metric to optimize (apex, range, resets, wind_ticks)")
	optimizeCmd.Flags().BoolVar(&optMinimize, "minimize", false, "look for the lowest value instead")
	optimizeCmd.Flags().StringToStringVar(&optGrid, "grid", map[string]string{"angle": "15:75:5"}, "parameter=from:to:by pairs (angle, force, wind)")
	optimizeCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of physics steps")

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, sweepCmd, optimizeCmd)
	return rootCmd
}

// loadConfig layers the configuration: the file (or defaults), then the
// preset, then any flag the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		apply, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		apply(cfg)
	}

	flags := cmd.Flags()
	if flags.Changed("angle") {
		cfg.Params.Angle = angle
	}
	if flags.Changed("force") {
		cfg.Params.Force = force
	}
	if flags.Changed("wind") {
		cfg.Params.Wind = wind
	}
	if flags.Changed("gravity") {
		cfg.Params.Gravity = gravity
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newSpace(cfg *config.Config) world.World {
	return chipmunk.New(chipmunk.Options{
		Dt:           cfg.Engine.Dt,
		ForceScale:   cfg.Engine.ForceScale,
		GravityScale: cfg.Engine.GravityScale,
	})
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr)
	s, err := sim.New(newSpace(cfg), cfg, sim.WithLogger(logger))
	if err != nil {
		return err
	}
	for _, m := range metrics.Defaults(s.Bounds().Origin()) {
		s.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// the report may own stdout
	summary := io.Writer(os.Stdout)
	if format != "" && outFile == "" {
		summary = os.Stderr
	}

	fmt.Fprintf(summary, "running %d steps (angle %v, force %v, wind %v, %s)...\n",
		cfg.Steps, cfg.Params.Angle, cfg.Params.Force, cfg.Params.Wind, cfg.Params.Gravity)
	start := time.Now()

	result, err := s.Run(ctx, cfg.Steps, cfg.Script)
	if result == nil {
		return err
	}
	if err != nil {
		fmt.Fprintf(summary, "interrupted: %v\n", err)
	}

	fmt.Fprintf(summary, "completed in %v\n", time.Since(start))
	printSummary(summary, result)

	if plot {
		fmt.Fprintln(summary)
		fmt.Fprintln(summary, heightPlot(result, s.Bounds().Origin().Y))
	}

	if format != "" {
		return writeReport(cfg, result)
	}
	return nil
}

func printSummary(w io.Writer, result *sim.Result) {
	fmt.Fprintf(w, "steps: %d\n", result.StepsTaken)
	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "rejected inputs: %d\n", len(result.Errors))
		for _, err := range result.Errors {
			fmt.Fprintf(w, "  %v\n", err)
		}
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.2f\n", name, result.Metrics[name])
	}
}

func heightPlot(result *sim.Result, originY float64) string {
	data := make([]float64, len(result.Frames))
	for i, f := range result.Frames {
		data[i] = originY - f.Position.Y
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("height above launch point (px) per step"),
	)
}

func writeReport(cfg *config.Config, result *sim.Result) error {
	out := io.Writer(os.Stdout)
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	var err error
	switch format {
	case "csv":
		err = export.WriteCSV(out, result.Frames)
	case "json":
		err = export.WriteJSON(out, export.Meta{Preset: preset, Config: cfg}, result)
	case "svg":
		bounds := sim.BoundsOf(cfg)
		_, err = io.WriteString(out, export.TrajectorySVG(result.Frames, bounds, "#00ffcc"))
	default:
		return fmt.Errorf("unknown format: %s (available: csv, json, svg)", format)
	}
	if err != nil {
		return err
	}

	if outFile != "" {
		fmt.Printf("exported to %s\n", outFile)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stderr belongs to the alternate screen while the program runs
	logOut := io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut)

	s, err := sim.New(newSpace(cfg), cfg, sim.WithLogger(logger))
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(s, cfg, logger), tea.WithAltScreen())

	if configFile != "" {
		w, err := config.NewWatcher(configFile)
		if err != nil {
			return err
		}
		defer w.Close()
		go forwardReloads(w, p)
	}

	_, err = p.Run()
	return err
}

func forwardReloads(w *config.Watcher, p *tea.Program) {
	for {
		select {
		case cfg, ok := <-w.Configs:
			if !ok {
				return
			}
			p.Send(viz.ReloadMsg{Params: cfg.Params})
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			p.Send(viz.ReloadErrMsg{Err: err})
		}
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tANGLE\tFORCE\tWIND\tGRAVITY\tSTEPS\tEVENTS")

	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%v\t%v\t%v\t%s\t%d\t%d\n",
			name,
			cfg.Params.Angle,
			cfg.Params.Force,
			cfg.Params.Wind,
			cfg.Params.Gravity,
			cfg.Steps,
			len(cfg.Script),
		)
	}

	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	values, err := optim.Range(sweepFrom, sweepTo, sweepBy)
	if err != nil {
		return err
	}
	ensureLaunch(base)

	cfgs := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := *base
		if err := setParam(&cfg, sweepParam, v); err != nil {
			return err
		}
		cfgs[i] = &cfg
	}

	origin := sim.BoundsOf(base).Origin()
	results, err := sim.Sweep(cmd.Context(), cfgs, newSpace, func() []sim.Metric {
		return metrics.Defaults(origin)
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tAPEX\tRANGE\tRESETS\n", sweepParam)
	for i, r := range results {
		fmt.Fprintf(w, "%v\t%.1f\t%.1f\t%.0f\n",
			values[i],
			r.Metrics["apex"],
			r.Metrics["range"],
			r.Metrics["resets"],
		)
	}
	return w.Flush()
}

func ensureLaunch(cfg *config.Config) {
	if len(cfg.Script) == 0 {
		cfg.Script = []config.ScriptEntry{{Step: 0, Command: "launch"}}
	}
}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "angle":
		// typed angles keep only the integer part
		cfg.Params.Angle = math.Trunc(v)
	case "force":
		cfg.Params.Force = v
	case "wind":
		cfg.Params.Wind = v
	default:
		return fmt.Errorf("unknown parameter: %s (available: angle, force, wind)", name)
	}
	return nil
}

// parseGrid turns name=from:to:by pairs into a sorted search grid.
func parseGrid(grid map[string]string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(grid))
	for name := range grid {
		names = append(names, name)
	}
	sort.Strings(names)

	ranges := make([][]float64, len(names))
	for i, name := range names {
		if err := setParam(config.DefaultConfig(), name, 0); err != nil {
			return nil, nil, err
		}
		parts := strings.Split(grid[name], ":")
		if len(parts) != 3 {
			return nil, nil, fmt.Errorf("%s: expected from:to:by, got %q", name, grid[name])
		}
		var bounds [3]float64
		for j, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", name, err)
			}
			bounds[j] = v
		}
		values, err := optim.Range(bounds[0], bounds[1], bounds[2])
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		ranges[i] = values
	}
	return names, ranges, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ensureLaunch(base)

	names, ranges, err := parseGrid(optGrid)
	if err != nil {
		return err
	}

	build := func(p map[string]float64) (*sim.Session, error) {
		cfg := *base
		for name, v := range p {
			if err := setParam(&cfg, name, v); err != nil {
				return nil, err
			}
		}
		s, err := sim.New(newSpace(&cfg), &cfg)
		if err != nil {
			return nil, err
		}
		for _, m := range metrics.Defaults(s.Bounds().Origin()) {
			s.AddMetric(m)
		}
		return s, nil
	}

	g := optim.NewGridSearch(names, ranges, base.Steps, base.Script)
	search := g.Maximize
	if optMinimize {
		search = g.Minimize
	}

	start := time.Now()
	best, val, err := search(cmd.Context(), build, optMetric)
	if err != nil {
		return err
	}

	fmt.Printf("searched in %v\n", time.Since(start))
	fmt.Printf("best %s: %.2f\n", optMetric, val)
	for _, name := range names {
		fmt.Printf("  %s: %v\n", name, best[name])
	}
	return nil
}
