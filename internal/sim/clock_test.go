package sim

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
)

func newBody(t testing.TB, kind dynamo.Kind, m float64, pos, vel dynamo.Vec2) dynamo.Body {
	t.Helper()
	b, err := dynamo.NewBody(kind, 1, "white", m, pos, vel)
	require.NoError(t, err)
	return b
}

func newClock(t testing.TB, bodies []dynamo.Body, g, dt float64) *Clock {
	t.Helper()
	c, err := New(bodies, physics.NewGravity(g, physics.DefaultEpsilon, 1), integrators.NewSemiImplicitEuler(), Config{Dt: dt, ValidateState: true})
	require.NoError(t, err)
	return c
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"zero dt", 0},
		{"negative dt", -0.1},
		{"NaN dt", math.NaN()},
		{"Inf dt", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil, physics.NewGravity(1, 0, 1), integrators.NewSemiImplicitEuler(), Config{Dt: tt.dt})
			assert.ErrorIs(t, err, dynamo.ErrInvalidTimestep)
		})
	}
}

func TestNew_RejectsZeroValueBody(t *testing.T) {
	ok := newBody(t, dynamo.KindStar, 1, dynamo.Vec2{}, dynamo.Vec2{})
	_, err := New([]dynamo.Body{ok, {}}, physics.NewGravity(1, 0, 1), integrators.NewSemiImplicitEuler(), DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, dynamo.ErrNonPositiveMass)

	var be *dynamo.BodyError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 1, be.Index)
}

func TestClock_EmptySystem(t *testing.T) {
	c := newClock(t, nil, 1, 0.1)
	require.NoError(t, c.Run(context.Background(), 10))
	assert.Equal(t, 10, c.Steps())
	assert.Empty(t, c.Bodies())
}

func TestClock_KeplerCircularOrbit(t *testing.T) {
	const (
		g  = 1.0
		m1 = 1.0
		m2 = 1e-3
		d  = 1.0
		n  = 50000
	)
	total := m1 + m2
	v := physics.CircularSpeed(g, m1, m2, d)
	period := physics.OrbitalPeriod(g, m1, m2, d)

	bodies := []dynamo.Body{
		newBody(t, dynamo.KindStar, m1, dynamo.Vec2{X: -m2 / total * d}, dynamo.Vec2{Y: -m2 / total * v}),
		newBody(t, dynamo.KindPlanet, m2, dynamo.Vec2{X: m1 / total * d}, dynamo.Vec2{Y: m1 / total * v}),
	}
	c := newClock(t, bodies, g, period/n)

	require.NoError(t, c.Run(context.Background(), n))

	got := c.Bodies()
	rel := got[1].Pos.Sub(got[0].Pos)
	assert.InDelta(t, d, rel.X, 1e-2*d, "relative x after one period")
	assert.InDelta(t, 0, rel.Y, 1e-2*d, "relative y after one period")
	assert.InDelta(t, period, c.Time(), 1e-9*period)
}

func TestClock_MomentumConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bodies := make([]dynamo.Body, 6)
	for i := range bodies {
		bodies[i] = newBody(t, dynamo.KindPlanet, 0.5+rng.Float64(),
			dynamo.Vec2{X: rng.NormFloat64() * 5, Y: rng.NormFloat64() * 5},
			dynamo.Vec2{X: rng.NormFloat64(), Y: rng.NormFloat64()})
	}
	p0 := physics.Momentum(bodies)

	c := newClock(t, bodies, 1, 1e-3)
	for k := 0; k < 5; k++ {
		require.NoError(t, c.Run(context.Background(), 400))

		current := c.Bodies()
		scale := 0.0
		for _, b := range current {
			scale += b.Momentum().Norm()
		}
		p := physics.Momentum(current)
		assert.InDelta(t, p0.X, p.X, 1e-9*scale)
		assert.InDelta(t, p0.Y, p.Y, 1e-9*scale)
	}
}

func TestClock_SingleBodyStaysAtRest(t *testing.T) {
	start := dynamo.Vec2{X: 3, Y: 4}
	c := newClock(t, []dynamo.Body{newBody(t, dynamo.KindStar, 2e30, start, dynamo.Vec2{})}, physics.DefaultG, 3600)

	require.NoError(t, c.Run(context.Background(), 5000))

	b := c.Bodies()[0]
	assert.Equal(t, start, b.Pos)
	assert.Equal(t, dynamo.Vec2{}, b.Vel)
}

func TestClock_CoincidentBodiesStayFinite(t *testing.T) {
	bodies := []dynamo.Body{
		newBody(t, dynamo.KindPlanet, 1, dynamo.Vec2{X: 1, Y: 1}, dynamo.Vec2{}),
		newBody(t, dynamo.KindPlanet, 1, dynamo.Vec2{X: 1, Y: 1}, dynamo.Vec2{}),
		newBody(t, dynamo.KindStar, 50, dynamo.Vec2{X: 10, Y: 1}, dynamo.Vec2{}),
	}
	c := newClock(t, bodies, 1, 1e-3)
	require.NoError(t, c.Run(context.Background(), 100))

	for _, b := range c.Bodies() {
		assert.True(t, b.Pos.IsValid())
		assert.True(t, b.Vel.IsValid())
	}
}

func TestClock_ZeroStepsLeavesBodiesUntouched(t *testing.T) {
	bodies := []dynamo.Body{
		newBody(t, dynamo.KindStar, 10, dynamo.Vec2{}, dynamo.Vec2{X: 1}),
		newBody(t, dynamo.KindPlanet, 1, dynamo.Vec2{X: 3}, dynamo.Vec2{Y: 2}),
	}
	c := newClock(t, bodies, 1, 0.01)
	assert.Equal(t, bodies, c.Bodies())
	assert.Equal(t, 0, c.Steps())
	assert.Equal(t, 0.0, c.Time())
}

func TestClock_BodiesReturnsCopy(t *testing.T) {
	bodies := []dynamo.Body{newBody(t, dynamo.KindStar, 10, dynamo.Vec2{}, dynamo.Vec2{})}
	c := newClock(t, bodies, 1, 0.01)

	snap := c.Bodies()
	snap[0].Pos = dynamo.Vec2{X: 100}
	bodies[0].Pos = dynamo.Vec2{X: 200}

	assert.Equal(t, dynamo.Vec2{}, c.Bodies()[0].Pos)
}

func TestClock_Drawables(t *testing.T) {
	b, err := dynamo.NewBody(dynamo.KindStar, 30, "yellow", 10, dynamo.Vec2{X: 1, Y: 2}, dynamo.Vec2{})
	require.NoError(t, err)
	c := newClock(t, []dynamo.Body{b}, 1, 0.01)

	d := c.Drawables()
	require.Len(t, d, 1)
	assert.Equal(t, dynamo.Drawable{Pos: dynamo.Vec2{X: 1, Y: 2}, Radius: 30, Color: "yellow"}, d[0])
}

func TestClock_RunHonoursCancellation(t *testing.T) {
	c := newClock(t, []dynamo.Body{newBody(t, dynamo.KindStar, 1, dynamo.Vec2{}, dynamo.Vec2{})}, 1, 0.01)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Run(ctx, 100)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, c.Steps())
}

func TestClock_RunUntilCancelled(t *testing.T) {
	c := newClock(t, []dynamo.Body{newBody(t, dynamo.KindStar, 1, dynamo.Vec2{}, dynamo.Vec2{})}, 1, 0.01)

	ctx, cancel := context.WithCancel(context.Background())
	c.AddObserver(observerFunc(func(_ []dynamo.Body, step int, _ float64) {
		if step == 25 {
			cancel()
		}
	}))

	err := c.Run(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 25, c.Steps())
}

// stampField and stampIntegrator make every body carry the step number so a
// torn snapshot is detectable.
type stampField struct{}

func (stampField) Accelerations(bodies []dynamo.Body, acc []dynamo.Vec2) []dynamo.Vec2 {
	if cap(acc) < len(bodies) {
		acc = make([]dynamo.Vec2, len(bodies))
	}
	return acc[:len(bodies)]
}

type stampIntegrator struct{}

func (stampIntegrator) Name() string { return "stamp" }

func (stampIntegrator) Step(bodies []dynamo.Body, acc []dynamo.Vec2, dt float64) {
	for i := range bodies {
		bodies[i].Pos.X++
	}
}

func TestClock_ReadersSeeCompletedSteps(t *testing.T) {
	bodies := make([]dynamo.Body, 64)
	for i := range bodies {
		bodies[i] = newBody(t, dynamo.KindPlanet, 1, dynamo.Vec2{}, dynamo.Vec2{})
	}
	c, err := New(bodies, stampField{}, stampIntegrator{}, Config{Dt: 1})
	require.NoError(t, err)

	var wg sync.WaitGroup
	done := make(chan struct{})
	torn := make(chan string, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			snap := c.Bodies()
			for _, b := range snap {
				if b.Pos.X != snap[0].Pos.X {
					select {
					case torn <- "snapshot mixes steps":
					default:
					}
					return
				}
			}
		}
	}()

	require.NoError(t, c.Run(context.Background(), 2000))
	close(done)
	wg.Wait()

	select {
	case msg := <-torn:
		t.Fatal(msg)
	default:
	}
	assert.Equal(t, 2000.0, c.Bodies()[0].Pos.X)
}

type recordingField struct {
	seen [][]dynamo.Body
	next dynamo.ForceField
}

func (r *recordingField) Accelerations(bodies []dynamo.Body, acc []dynamo.Vec2) []dynamo.Vec2 {
	r.seen = append(r.seen, dynamo.CloneBodies(bodies))
	return r.next.Accelerations(bodies, acc)
}

func TestClock_ForcesUsePreStepState(t *testing.T) {
	bodies := []dynamo.Body{
		newBody(t, dynamo.KindStar, 10, dynamo.Vec2{}, dynamo.Vec2{}),
		newBody(t, dynamo.KindPlanet, 1, dynamo.Vec2{X: 2}, dynamo.Vec2{Y: 1}),
	}
	field := &recordingField{next: physics.NewGravity(1, physics.DefaultEpsilon, 1)}
	c, err := New(bodies, field, integrators.NewSemiImplicitEuler(), Config{Dt: 0.01})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		before := c.Bodies()
		c.Step()
		assert.Equal(t, before, field.seen[i])
	}
}

type observerFunc func(bodies []dynamo.Body, step int, t float64)

func (f observerFunc) OnStep(bodies []dynamo.Body, step int, t float64) { f(bodies, step, t) }

type countMetric struct{ n int }

func (m *countMetric) Name() string                       { return "count" }
func (m *countMetric) Observe(_ []dynamo.Body, _ float64) { m.n++ }
func (m *countMetric) Value() float64                     { return float64(m.n) }
func (m *countMetric) Reset()                             { m.n = 0 }

func TestClock_ObserversAndMetrics(t *testing.T) {
	c := newClock(t, []dynamo.Body{newBody(t, dynamo.KindStar, 1, dynamo.Vec2{}, dynamo.Vec2{})}, 1, 0.5)

	var steps []int
	var times []float64
	c.AddObserver(observerFunc(func(_ []dynamo.Body, step int, t float64) {
		steps = append(steps, step)
		times = append(times, t)
	}))
	m := &countMetric{}
	c.AddMetric(m)

	require.NoError(t, c.Run(context.Background(), 3))

	assert.Equal(t, []int{1, 2, 3}, steps)
	assert.Equal(t, []float64{0.5, 1.0, 1.5}, times)
	// the metric also sees the initial state
	assert.Equal(t, map[string]float64{"count": 4}, c.Metrics())
}

func TestStepError(t *testing.T) {
	err := &StepError{Step: 150, Time: 1.5, Wrapped: dynamo.ErrInvalidState}
	expected := "step 150 (t=1.5000): dynamo: invalid state (NaN or Inf detected)"
	assert.Equal(t, expected, err.Error())
	assert.ErrorIs(t, err, dynamo.ErrInvalidState)
}
