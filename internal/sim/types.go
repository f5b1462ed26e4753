package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

type Config struct {
	// Dt is the fixed timestep in seconds of simulated time.
	Dt float64

	// ValidateState stops Run with ErrInvalidState when a step leaves a
	// body with a NaN or Inf component.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            3600,
		ValidateState: true,
	}
}

func (c Config) validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: got %v", dynamo.ErrInvalidTimestep, c.Dt)
	}
	return nil
}

// StepError reports the step at which a run was stopped.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
