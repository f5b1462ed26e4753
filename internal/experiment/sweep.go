package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
)

// MaxSweepSteps bounds the step count of a single sweep run.
const MaxSweepSteps = math.MaxInt32

var ErrTooManySteps = errors.New("experiment: timestep needs too many steps")

type SweepResult struct {
	Dt            float64
	Steps         int
	EnergyDrift   float64
	MomentumDrift float64
	Final         []dynamo.Body
	Elapsed       time.Duration
}

// Sweep runs one independent experiment per timestep, each covering the
// simulated duration of base. Runs execute concurrently; results are in
// the order of dts.
func Sweep(ctx context.Context, base *config.Config, dts []float64, logger hclog.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	duration := base.Dt * float64(base.Steps)
	results := make([]SweepResult, len(dts))

	steps := make([]int, len(dts))
	for i, dt := range dts {
		n := math.Round(duration / dt)
		if math.IsNaN(n) || n > MaxSweepSteps {
			return nil, fmt.Errorf("dt %g over %gs: %w", dt, duration, ErrTooManySteps)
		}
		steps[i] = int(n)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, dt := range dts {
		cfg := *base
		cfg.Dt = dt
		cfg.Steps = steps[i]
		cfg.SampleEvery = cfg.Steps + 1

		g.Go(func() error {
			exp, err := New(&cfg, logger.Named("sweep"))
			if err != nil {
				return err
			}
			res, err := exp.Run(gctx)
			if err != nil {
				return err
			}
			results[i] = SweepResult{
				Dt:            dt,
				Steps:         res.Steps,
				EnergyDrift:   res.Metrics["energy_drift"],
				MomentumDrift: res.Metrics["momentum_drift"],
				Final:         res.Final,
				Elapsed:       res.Elapsed,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
