package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   hclog.Logger

	// Simulation
	configFile  string
	preset      string
	gravity     float64
	epsilon     float64
	dt          float64
	steps       int
	workers     int
	sampleEvery int
	autoOrbit   bool
	lenient     bool

	// Live view
	frameRate     int
	stepsPerFrame int
	trail         int
	theme         string
	snapshotDir   string
	pick          bool
	scenarioDir   string

	// Output
	metricsAddr string
	output      string
	svgWidth    int
	svgHeight   int
	benchSizes  []int
	benchSteps  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gravsim",
		Short:         "2d n-body gravity simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := hclog.LevelFromString(logLevel)
			if level == hclog.NoLevel {
				return fmt.Errorf("unknown log level: %s", logLevel)
			}
			logger = hclog.New(&hclog.LoggerOptions{
				Name:   "gravsim",
				Level:  level,
				Output: os.Stderr,
			})
			return nil
		},
		// Default to the scenario menu when no command is given
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.Flags().StringVar(&scenarioDir, "dir", "scenarios", "scenario directory for the menu")
	addLiveFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run [scenario.txt]",
		Short: "run simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")

	liveCmd := &cobra.Command{
		Use:   "live [scenario.txt]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	addLiveFlags(liveCmd)
	liveCmd.Flags().BoolVar(&pick, "pick", false, "choose a preset or scenario file from a menu")
	liveCmd.Flags().StringVar(&scenarioDir, "dir", "scenarios", "scenario directory for the menu")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy drift and orbital radii of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate orbital periods of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export sampled states to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the orbits of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list scenario files",
		RunE:  listScenarios,
	}
	scenariosCmd.Flags().StringVar(&scenarioDir, "dir", "scenarios", "scenario directory")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [dt] [dt] ...",
		Short: "compare timesteps over the same simulated duration",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareTimesteps,
	}
	addSimFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark force evaluation by body count",
		RunE:  benchBodies,
	}
	benchCmd.Flags().IntSliceVar(&benchSizes, "bodies", []int{8, 32, 128, 512}, "body counts")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 200, "steps per measurement")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "force workers for the parallel column (0 = all cpus)")

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		scenariosCmd, presetsCmd, compareCmd, benchCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&gravity, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&epsilon, "eps", config.DefaultEpsilon, "minimum pair distance")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().IntVar(&workers, "workers", 0, "force workers (0 = all cpus)")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "steps between stored samples")
	cmd.Flags().BoolVar(&autoOrbit, "auto-orbit", false, "give planets at rest a circular orbit")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "skip bad scenario lines instead of failing")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", config.DefaultStepsPerFrame, "physics steps per frame")
	cmd.Flags().IntVar(&trail, "trail", config.DefaultTrail, "trail length in frames")
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeSpace.Name, "color theme")
	cmd.Flags().StringVar(&snapshotDir, "snapshots", ".", "directory for saved snapshots")
}

// resolveConfig layers defaults, the config file, a preset, the scenario
// argument and finally explicitly set flags.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		tuned := p.Config(preset)
		tuned.Epsilon = cfg.Epsilon
		tuned.Workers = cfg.Workers
		tuned.AutoOrbit = cfg.AutoOrbit
		tuned.Lenient = cfg.Lenient
		tuned.Live = cfg.Live
		cfg = tuned
	}
	if len(args) > 0 {
		cfg.Scenario = args[0]
		cfg.Preset = ""
	}

	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("eps") {
		cfg.Epsilon = epsilon
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("auto-orbit") {
		cfg.AutoOrbit = autoOrbit
	}
	if flags.Changed("lenient") {
		cfg.Lenient = lenient
	}
	if flags.Changed("fps") {
		cfg.Live.FPS = frameRate
	}
	if flags.Changed("steps-per-frame") {
		cfg.Live.StepsPerFrame = stepsPerFrame
	}
	if flags.Changed("trail") {
		cfg.Live.Trail = trail
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		srv, err := serveMetrics(exp, cfg.SampleEvery)
		if err != nil {
			return err
		}
		defer srv.Shutdown(context.Background())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s (%d bodies, %d steps of %gs)...\n", cfg.Source(), exp.Clock().Len(), cfg.Steps, cfg.Dt)
	result, err := exp.Run(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warn("interrupted, saving partial run", "steps", result.Steps)
	}

	runID, err := st.Save(storage.RunMetadata{
		Scenario:   cfg.Source(),
		G:          cfg.G,
		Epsilon:    cfg.Epsilon,
		Dt:         cfg.Dt,
		Integrator: exp.Clock().IntegratorName(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%s simulated)\n", result.Steps, viz.FormatSimTime(exp.Clock().Time()))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
	}

	return nil
}

func serveMetrics(exp *experiment.Experiment, every int) (*http.Server, error) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg, exp.Field(), every)
	if err != nil {
		return nil, err
	}
	collector.Start(exp.Clock().Bodies())
	exp.AddObserver(collector)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "addr", metricsAddr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", metricsAddr)
	return srv, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if pick {
		return runPicker(cmd)
	}

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}

	m := viz.NewModel(exp.Clock(), exp.Field(), cfg.Source(), cfg.Live).
		WithTheme(viz.GetTheme(theme)).
		WithSnapshotDir(snapshotDir)
	return viz.Run(m)
}

// runPicker opens the scenario menu over the presets and the files in
// scenarioDir.
func runPicker(cmd *cobra.Command) error {
	live := config.DefaultConfig().Live
	if cmd.Flags().Changed("fps") {
		live.FPS = frameRate
	}
	if cmd.Flags().Changed("steps-per-frame") {
		live.StepsPerFrame = stepsPerFrame
	}
	if cmd.Flags().Changed("trail") {
		live.Trail = trail
	}

	var choices []viz.Choice
	for _, name := range config.ListPresets() {
		choices = append(choices, viz.Choice{Name: name, Desc: config.GetPreset(name).Description, Preset: true})
	}
	files, err := scenario.List(scenarioDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	for _, f := range files {
		choices = append(choices, viz.Choice{Name: f, Desc: scenarioDir, Path: filepath.Join(scenarioDir, f)})
	}

	launch := func(c viz.Choice) (viz.Model, error) {
		var cfg *config.Config
		if c.Preset {
			cfg = config.GetPreset(c.Name).Config(c.Name)
		} else {
			cfg = config.DefaultConfig()
			cfg.Preset = ""
			cfg.Scenario = c.Path
			cfg.Lenient = true
		}
		cfg.Live = live

		exp, err := experiment.New(cfg, logger)
		if err != nil {
			return viz.Model{}, err
		}
		return viz.NewModel(exp.Clock(), exp.Field(), c.Name, cfg.Live).WithSnapshotDir(snapshotDir), nil
	}

	return viz.Run(viz.NewApp(choices, launch, viz.GetTheme(theme)))
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tSTEPS\tSIMULATED\tDT\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%gs\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Steps,
			viz.FormatSimTime(run.Duration),
			run.Dt,
			run.Metrics["energy_drift"],
		)
	}

	return w.Flush()
}

// loadSamples rebuilds the body list of every stored sample from the
// tracks and the body attributes in the final state.
func loadSamples(st *storage.Store, runID string) ([]float64, [][]dynamo.Body, error) {
	times, tracks, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	final, err := st.LoadFinal(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(final) != len(tracks) {
		return nil, nil, fmt.Errorf("%s: %d tracks but %d bodies", runID, len(tracks), len(final))
	}

	samples := make([][]dynamo.Body, len(times))
	for k := range times {
		bodies := dynamo.CloneBodies(final)
		for i := range bodies {
			bodies[i].Pos = tracks[i].Pos[k]
			bodies[i].Vel = tracks[i].Vel[k]
		}
		samples[k] = bodies
	}
	return times, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	times, samples, err := loadSamples(st, runID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d over %s\n\n", len(samples), viz.FormatSimTime(times[len(times)-1]))

	field := physics.NewGravity(meta.G, meta.Epsilon, 1)
	e0 := field.TotalEnergy(samples[0])
	drift := make([]float64, len(samples))
	for k, bodies := range samples {
		if e0 != 0 {
			drift[k] = (field.TotalEnergy(bodies) - e0) / math.Abs(e0)
		}
	}
	fmt.Println(asciigraph.Plot(drift,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("relative energy drift"),
	))
	fmt.Println()

	numBodies := len(samples[0])
	maxPlots := 6
	if numBodies > maxPlots {
		numBodies = maxPlots
	}

	for i := 0; i < numBodies; i++ {
		radius := make([]float64, len(samples))
		for k, bodies := range samples {
			radius[k] = bodies[i].Pos.Sub(physics.CenterOfMass(bodies)).Norm()
		}

		graph := asciigraph.Plot(radius,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d (%s %s) distance from center of mass", i, samples[0][i].Color(), samples[0][i].Label())),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	times, samples, err := loadSamples(st, runID)
	if err != nil {
		return err
	}

	periods, err := analysis.OrbitalPeriods(times, samples)
	if err != nil {
		return err
	}

	fmt.Printf("orbital periods: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	if lightest, ps := lightestSpectrum(samples); len(ps) > 1 {
		fmt.Println(asciigraph.Plot(ps,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (body %d x)", lightest)),
		))
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tKIND\tCOLOR\tPERIOD\tORBITS")
	for _, p := range periods {
		period := "-"
		if p.Period > 0 {
			period = viz.FormatSimTime(p.Period)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\n", p.Index, p.Label, p.Color, period, p.Orbits)
	}
	return w.Flush()
}

// outputWriter returns the --output file, or stdout when none was given.
func outputWriter(fallback string) (io.Writer, func() error, error) {
	path := output
	if path == "" {
		path = fallback
	}
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	w, closeFn, err := outputWriter("")
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).CopyStates(w, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	w, closeFn, err := outputWriter("")
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).ExportJSON(w, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	_, tracks, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	final, err := st.LoadFinal(runID)
	if err != nil {
		return err
	}

	paths := make([][]dynamo.Vec2, len(tracks))
	colors := make([]string, len(tracks))
	for i, tr := range tracks {
		paths[i] = tr.Pos
		if i < len(final) {
			colors[i] = final[i].Color()
		}
	}

	svg := export.OrbitsSVG(paths, colors, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("%s: nothing to draw", runID)
	}

	path := output
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func listScenarios(cmd *cobra.Command, args []string) error {
	files, err := scenario.List(scenarioDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("no scenarios in %s\n", scenarioDir)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tBODIES\tSKIPPED")
	for _, f := range files {
		skipped := 0
		bodies, err := scenario.LoadFile(filepath.Join(scenarioDir, f), scenario.WithLenient(func(*scenario.ParseError) { skipped++ }))
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\n", f, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\n", f, len(bodies), skipped)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tG\tDT\tSTEPS\tSIMULATED\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%gs\t%d\t%s\t%s\n",
			name, p.G, p.Dt, p.Steps, viz.FormatSimTime(p.Dt*float64(p.Steps)), p.Description)
	}
	return w.Flush()
}

func compareTimesteps(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}

	dts := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil || v <= 0 || math.IsInf(v, 0) {
			return fmt.Errorf("invalid timestep %q: %w", a, dynamo.ErrInvalidTimestep)
		}
		dts[i] = v
	}

	fmt.Printf("comparing timesteps for %s over %s\n\n", cfg.Source(), viz.FormatSimTime(cfg.Dt*float64(cfg.Steps)))
	results, err := experiment.Sweep(context.Background(), cfg, dts, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT\tTIME")
	for _, r := range results {
		fmt.Fprintf(w, "%gs\t%d\t%.3e\t%.3e\t%v\n", r.Dt, r.Steps, r.EnergyDrift, r.MomentumDrift, r.Elapsed.Round(time.Millisecond))
	}
	return w.Flush()
}

// lightestSpectrum returns the power spectrum of the lightest body's x
// offset from the center of mass, usually the clearest orbital signal.
func lightestSpectrum(samples [][]dynamo.Body) (int, []float64) {
	lightest := 0
	for i, b := range samples[0] {
		if b.Mass() < samples[0][lightest].Mass() {
			lightest = i
		}
	}
	series := make([]float64, len(samples))
	for k, bodies := range samples {
		series[k] = bodies[lightest].Pos.X - physics.CenterOfMass(bodies).X
	}
	return lightest, analysis.PowerSpectrum(series)
}

// ringSystem is a star with n-1 planets on circular orbits, used for
// benchmarking.
func ringSystem(n int) ([]dynamo.Body, error) {
	bodies := make([]dynamo.Body, 0, n)
	star, err := dynamo.NewBody(dynamo.KindStar, 20, "yellow", 1.98892e30, dynamo.Vec2{}, dynamo.Vec2{})
	if err != nil {
		return nil, err
	}
	bodies = append(bodies, star)
	for i := 1; i < n; i++ {
		angle := float64(i) * 2.399963 // golden angle
		r := 5e10 + float64(i)*1e9
		pos := dynamo.Vec2{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
		p, err := dynamo.NewBody(dynamo.KindPlanet, 3, "blue", 1e23, pos, dynamo.Vec2{})
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, p)
	}
	physics.CircularizeOrbits(config.DefaultG, bodies)
	return bodies, nil
}

func benchBodies(cmd *cobra.Command, args []string) error {
	parallel := workers
	if parallel <= 0 {
		parallel = dynamo.DefaultWorkers
	}

	fmt.Printf("benchmarking %d steps per size\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tWORKERS\tTIME\tSTEPS/SEC")

	for _, n := range benchSizes {
		if n < 1 {
			return fmt.Errorf("invalid body count %d", n)
		}
		for _, wk := range []int{1, parallel} {
			bodies, err := ringSystem(n)
			if err != nil {
				return err
			}
			clock, err := sim.New(bodies, physics.NewGravity(config.DefaultG, config.DefaultEpsilon, wk),
				integrators.NewSemiImplicitEuler(), sim.Config{Dt: 60})
			if err != nil {
				return err
			}

			start := time.Now()
			if err := clock.Run(context.Background(), benchSteps); err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, wk, elapsed.Round(time.Microsecond), float64(benchSteps)/elapsed.Seconds())
			if parallel == 1 {
				break
			}
		}
	}

	return w.Flush()
}
