package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

var ErrTooFewSamples = errors.New("analysis: too few samples")

// minSamples is the shortest series a period is estimated from.
const minSamples = 4

type BodyPeriod struct {
	Index  int
	Label  string
	Color  string
	Period float64
	// Orbits is the number of periods covered by the samples.
	Orbits float64
}

// OrbitalPeriods estimates each body's period from its x coordinate
// relative to the center of mass. Samples must be evenly spaced except
// for a shorter final interval, which is dropped.
func OrbitalPeriods(times []float64, samples [][]dynamo.Body) ([]BodyPeriod, error) {
	if len(times) != len(samples) {
		return nil, fmt.Errorf("analysis: %d times for %d samples", len(times), len(samples))
	}
	if len(samples) < minSamples {
		return nil, ErrTooFewSamples
	}

	step := times[1] - times[0]
	n := len(samples)
	if last := times[n-1] - times[n-2]; math.Abs(last-step) > 1e-9*math.Abs(step) {
		n--
	}
	for k := 1; k < n; k++ {
		if d := times[k] - times[k-1]; math.Abs(d-step) > 1e-9*math.Abs(step) {
			return nil, fmt.Errorf("analysis: uneven sample spacing at %d", k)
		}
	}
	if n < minSamples {
		return nil, ErrTooFewSamples
	}

	series := make([][]float64, len(samples[0]))
	for i := range series {
		series[i] = make([]float64, n)
	}
	for k := 0; k < n; k++ {
		com := physics.CenterOfMass(samples[k])
		for i, b := range samples[k] {
			series[i][k] = b.Pos.X - com.X
		}
	}

	span := step * float64(n)
	periods := make([]BodyPeriod, len(series))
	for i, s := range series {
		b := samples[0][i]
		p := DominantPeriod(s, step)
		bp := BodyPeriod{Index: i, Label: b.Label(), Color: b.Color(), Period: p}
		if p > 0 {
			bp.Orbits = span / p
		}
		periods[i] = bp
	}
	return periods, nil
}
