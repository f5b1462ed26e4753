package sim

import (
	"context"
	"sync"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Clock owns the authoritative body list of a run and advances it one
// fixed timestep per Step. Step may be called from one goroutine at a time
// (concurrent calls are serialized); readers on other goroutines always see
// a fully completed step.
type Clock struct {
	field      dynamo.ForceField
	integrator dynamo.Integrator
	cfg        Config

	stepMu sync.Mutex
	work   []dynamo.Body
	acc    []dynamo.Vec2

	mu        sync.RWMutex
	published []dynamo.Body
	steps     int

	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(bodies []dynamo.Body, field dynamo.ForceField, integrator dynamo.Integrator, cfg Config) (*Clock, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	for i, b := range bodies {
		if err := b.Validate(); err != nil {
			return nil, &dynamo.BodyError{Index: i, Wrapped: err}
		}
	}

	return &Clock{
		field:      field,
		integrator: integrator,
		cfg:        cfg,
		work:       make([]dynamo.Body, len(bodies)),
		acc:        make([]dynamo.Vec2, len(bodies)),
		published:  dynamo.CloneBodies(bodies),
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}, nil
}

// AddMetric and AddObserver must be called before stepping starts.
func (c *Clock) AddMetric(m dynamo.Metric) {
	c.stepMu.Lock()
	defer c.stepMu.Unlock()
	m.Reset()
	m.Observe(c.published, c.Time())
	c.metrics = append(c.metrics, m)
}

func (c *Clock) AddObserver(o dynamo.Observer) {
	c.stepMu.Lock()
	defer c.stepMu.Unlock()
	c.observers = append(c.observers, o)
}

// Step evaluates the force field on the current state, integrates a copy
// of it and then publishes the copy.
func (c *Clock) Step() {
	c.stepMu.Lock()
	defer c.stepMu.Unlock()

	// published is only replaced under stepMu, so reading it here without
	// mu is safe.
	copy(c.work, c.published)
	c.acc = c.field.Accelerations(c.work, c.acc)
	c.integrator.Step(c.work, c.acc, c.cfg.Dt)

	c.mu.Lock()
	c.published, c.work = c.work, c.published
	c.steps++
	steps := c.steps
	c.mu.Unlock()

	t := float64(steps) * c.cfg.Dt
	for _, m := range c.metrics {
		m.Observe(c.published, t)
	}
	for _, o := range c.observers {
		o.OnStep(c.published, steps, t)
	}
}

// Run calls Step n times, or until ctx is done when n <= 0. Cancellation
// is checked between steps.
func (c *Clock) Run(ctx context.Context, n int) error {
	for i := 0; n <= 0 || i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.Step()

		if c.cfg.ValidateState {
			if err := c.checkState(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Clock) checkState() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, b := range c.published {
		if !b.Pos.IsValid() || !b.Vel.IsValid() {
			return &StepError{
				Step:    c.steps,
				Time:    float64(c.steps) * c.cfg.Dt,
				Wrapped: &dynamo.BodyError{Index: i, Wrapped: dynamo.ErrInvalidState},
			}
		}
	}
	return nil
}

// Bodies returns a copy of the last completed step.
func (c *Clock) Bodies() []dynamo.Body {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return dynamo.CloneBodies(c.published)
}

func (c *Clock) Drawables() []dynamo.Drawable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d := make([]dynamo.Drawable, len(c.published))
	for i, b := range c.published {
		d[i] = b.Drawable()
	}
	return d
}

func (c *Clock) Steps() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.steps
}

func (c *Clock) Time() float64 {
	return float64(c.Steps()) * c.cfg.Dt
}

func (c *Clock) Dt() float64 { return c.cfg.Dt }

func (c *Clock) Len() int { return len(c.work) }

func (c *Clock) IntegratorName() string { return c.integrator.Name() }

func (c *Clock) Metrics() map[string]float64 {
	c.stepMu.Lock()
	defer c.stepMu.Unlock()
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
