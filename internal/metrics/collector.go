package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Collector publishes run progress as Prometheus metrics. It implements
// dynamo.Observer. Energy is evaluated every sampleEvery steps.
type Collector struct {
	steps       prometheus.Counter
	simTime     prometheus.Gauge
	bodies      prometheus.Gauge
	energy      prometheus.Gauge
	energyDrift prometheus.Gauge

	drift       *EnergyDrift
	sampleEvery int
}

func NewCollector(reg prometheus.Registerer, field *physics.Gravity, sampleEvery int) (*Collector, error) {
	if sampleEvery < 1 {
		sampleEvery = 1
	}
	c := &Collector{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gravsim",
			Name:      "steps_total",
			Help:      "Integration steps completed.",
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gravsim",
			Name:      "simulated_seconds",
			Help:      "Simulated time of the last completed step.",
		}),
		bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gravsim",
			Name:      "bodies",
			Help:      "Number of bodies in the run.",
		}),
		energy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gravsim",
			Name:      "total_energy_joules",
			Help:      "Total energy at the last sample.",
		}),
		energyDrift: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gravsim",
			Name:      "energy_drift_ratio",
			Help:      "Relative deviation of total energy from the first sample.",
		}),
		drift:       NewEnergyDrift(field),
		sampleEvery: sampleEvery,
	}

	for _, col := range []prometheus.Collector{c.steps, c.simTime, c.bodies, c.energy, c.energyDrift} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Start records the initial state as the energy reference.
func (c *Collector) Start(bodies []dynamo.Body) {
	c.drift.Reset()
	c.drift.Observe(bodies, 0)
	c.bodies.Set(float64(len(bodies)))
	c.energy.Set(c.drift.Energy())
	c.energyDrift.Set(0)
}

func (c *Collector) OnStep(bodies []dynamo.Body, step int, t float64) {
	c.steps.Inc()
	c.simTime.Set(t)
	if step%c.sampleEvery != 0 {
		return
	}
	c.drift.Observe(bodies, t)
	c.energy.Set(c.drift.Energy())
	c.energyDrift.Set(c.drift.Current())
}
