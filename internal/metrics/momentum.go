package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// MomentumDrift is the largest change of total momentum seen so far,
// relative to the summed momentum magnitudes of the first sample.
type MomentumDrift struct {
	name     string
	initial  dynamo.Vec2
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(bodies []dynamo.Body, t float64) {
	p := physics.Momentum(bodies)
	if m.samples == 0 {
		m.initial = p
		m.scale = 0
		for _, b := range bodies {
			m.scale += b.Momentum().Norm()
		}
		if m.scale == 0 {
			m.scale = 1
		}
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Norm()/m.scale)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = dynamo.Vec2{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}

// AngularMomentumDrift tracks the largest change of angular momentum about
// the origin, relative to Σ m|r × v| of the first sample.
type AngularMomentumDrift struct {
	initial  float64
	scale    float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{}
}

func (m *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (m *AngularMomentumDrift) Observe(bodies []dynamo.Body, t float64) {
	L := physics.AngularMomentum(bodies)
	if m.samples == 0 {
		m.initial = L
		m.scale = 0
		for _, b := range bodies {
			m.scale += b.Mass() * math.Abs(b.Pos.Cross(b.Vel))
		}
		if m.scale == 0 {
			m.scale = 1
		}
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, math.Abs(L-m.initial)/m.scale)
}

func (m *AngularMomentumDrift) Value() float64 { return m.maxDrift }

func (m *AngularMomentumDrift) Reset() {
	m.initial = 0
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
