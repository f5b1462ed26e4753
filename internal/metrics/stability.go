package metrics

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Bounded is the fraction of samples in which no body strayed further than
// factor times the initial extent from the center of mass.
type Bounded struct {
	name       string
	factor     float64
	limit      float64
	violations int
	samples    int
}

func NewBounded(factor float64) *Bounded {
	return &Bounded{
		name:   "bounded",
		factor: factor,
	}
}

func (s *Bounded) Name() string {
	return s.name
}

func (s *Bounded) Observe(bodies []dynamo.Body, t float64) {
	extent := physics.Extent(bodies)
	if s.samples == 0 {
		s.limit = extent * s.factor
	}
	s.samples++
	if extent > s.limit {
		s.violations++
	}
}

func (s *Bounded) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Bounded) Reset() {
	s.limit = 0
	s.violations = 0
	s.samples = 0
}

// Default returns the metrics attached to every stored run.
func Default(field *physics.Gravity) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(field),
		NewMomentumDrift(),
		NewAngularMomentumDrift(),
		NewBounded(10.0),
	}
}
