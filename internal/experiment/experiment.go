package experiment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
)

type Result struct {
	Times   []float64
	Samples [][]dynamo.Body
	Final   []dynamo.Body
	Steps   int
	Metrics map[string]float64
	Elapsed time.Duration
}

type Experiment struct {
	cfg    *config.Config
	field  *physics.Gravity
	clock  *sim.Clock
	logger hclog.Logger
}

// New loads the bodies named by cfg and builds a clock for them with the
// default metrics attached.
func New(cfg *config.Config, logger hclog.Logger) (*Experiment, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bodies, err := LoadBodies(cfg, logger)
	if err != nil {
		return nil, err
	}

	field := physics.NewGravity(cfg.G, cfg.Epsilon, cfg.Workers)
	clock, err := sim.New(bodies, field, integrators.NewSemiImplicitEuler(), sim.Config{Dt: cfg.Dt, ValidateState: true})
	if err != nil {
		return nil, err
	}
	for _, m := range metrics.Default(field) {
		clock.AddMetric(m)
	}

	logger.Debug("experiment ready", "source", cfg.Source(), "bodies", len(bodies), "dt", cfg.Dt, "steps", cfg.Steps)
	return &Experiment{cfg: cfg, field: field, clock: clock, logger: logger}, nil
}

// LoadBodies reads the preset or scenario file of cfg. Planets at rest get
// circular velocities when AutoOrbit is set.
func LoadBodies(cfg *config.Config, logger hclog.Logger) ([]dynamo.Body, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	var opts []scenario.Option
	if cfg.Lenient {
		opts = append(opts, scenario.WithLenient(func(e *scenario.ParseError) {
			logger.Warn("skipping scenario line", "line", e.Line, "text", strings.TrimSpace(e.Text), "error", e.Err)
		}))
	}

	var (
		bodies []dynamo.Body
		err    error
	)
	switch {
	case cfg.Scenario != "":
		bodies, err = scenario.LoadFile(cfg.Scenario, opts...)
	case cfg.Preset != "":
		p := config.GetPreset(cfg.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", cfg.Preset, config.ListPresets())
		}
		bodies, err = scenario.Load(strings.NewReader(p.Bodies), opts...)
	default:
		return nil, fmt.Errorf("no scenario or preset given")
	}
	if err != nil {
		return nil, err
	}
	if len(bodies) == 0 {
		return nil, fmt.Errorf("%s: %w", cfg.Source(), dynamo.ErrNoBodies)
	}

	if cfg.AutoOrbit {
		n := physics.CircularizeOrbits(cfg.G, bodies)
		logger.Debug("circularized orbits", "bodies", n)
	}
	return bodies, nil
}

func (e *Experiment) Clock() *sim.Clock             { return e.clock }
func (e *Experiment) Field() *physics.Gravity       { return e.field }
func (e *Experiment) Config() *config.Config        { return e.cfg }
func (e *Experiment) AddObserver(o dynamo.Observer) { e.clock.AddObserver(o) }

// Run advances the clock by cfg.Steps steps, recording the state every
// SampleEvery steps. The initial and final states are always recorded.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	steps := e.cfg.Steps
	every := e.cfg.SampleEvery
	if every < 1 {
		every = 1
	}

	result := &Result{
		Times:   make([]float64, 0, steps/every+2),
		Samples: make([][]dynamo.Body, 0, steps/every+2),
	}
	start := time.Now()
	recorded := -1
	record := func() {
		result.Times = append(result.Times, e.clock.Time())
		result.Samples = append(result.Samples, e.clock.Bodies())
		recorded = e.clock.Steps()
	}
	finish := func() {
		if e.clock.Steps() != recorded {
			record()
		}
		result.Steps = e.clock.Steps()
		result.Final = result.Samples[len(result.Samples)-1]
		result.Metrics = e.clock.Metrics()
		result.Elapsed = time.Since(start)
	}

	record()

	for done := 0; done < steps; {
		chunk := every
		if steps-done < chunk {
			chunk = steps - done
		}
		if err := e.clock.Run(ctx, chunk); err != nil {
			// The last sample always matches result.Steps.
			finish()
			return result, err
		}
		done += chunk
		record()
		e.logger.Trace("sample", "step", e.clock.Steps(), "t", e.clock.Time())
	}

	finish()

	e.logger.Info("run complete", "steps", result.Steps, "samples", len(result.Samples), "elapsed", result.Elapsed)
	return result, nil
}
