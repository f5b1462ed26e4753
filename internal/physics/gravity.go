package physics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	// DefaultG is the gravitational constant in SI units (m³ kg⁻¹ s⁻²).
	DefaultG = 6.67408e-11

	// DefaultEpsilon is the separation below which a pair exerts no force.
	DefaultEpsilon = 1e-9

	// parallelThreshold is the body count below which the serial path is used.
	parallelThreshold = 16
)

// Gravity is the pairwise Newtonian force field. It is safe for concurrent
// use as long as its fields are not modified.
type Gravity struct {
	G       float64
	Epsilon float64
	Workers int
}

func NewGravity(g, epsilon float64, workers int) *Gravity {
	return &Gravity{
		G:       g,
		Epsilon: epsilon,
		Workers: workers,
	}
}

// pull returns G*r/|r|³ for r = pj - pi, or false when the pair is closer
// than epsilon.
func (f *Gravity) pull(pi, pj dynamo.Vec2, eps2 float64) (dynamo.Vec2, bool) {
	rx := pj.X - pi.X
	ry := pj.Y - pi.Y
	r2 := rx*rx + ry*ry
	if r2 < eps2 || r2 == 0 {
		return dynamo.Vec2{}, false
	}
	r3Inv := 1.0 / (r2 * math.Sqrt(r2))
	k := f.G * r3Inv
	return dynamo.Vec2{X: k * rx, Y: k * ry}, true
}

// Force returns the force exerted on body "on" by body "by".
func (f *Gravity) Force(on, by dynamo.Body) dynamo.Vec2 {
	p, ok := f.pull(on.Pos, by.Pos, f.Epsilon*f.Epsilon)
	if !ok {
		return dynamo.Vec2{}
	}
	return p.Scale(on.Mass() * by.Mass())
}

// Accelerations implements dynamo.ForceField.
func (f *Gravity) Accelerations(bodies []dynamo.Body, acc []dynamo.Vec2) []dynamo.Vec2 {
	n := len(bodies)
	if cap(acc) < n {
		acc = make([]dynamo.Vec2, n)
	}
	acc = acc[:n]
	for i := range acc {
		acc[i] = dynamo.Vec2{}
	}

	if n < parallelThreshold || f.Workers == 1 {
		f.accelerationsSerial(bodies, acc)
		return acc
	}

	f.accelerationsParallel(bodies, acc)
	return acc
}

func (f *Gravity) accelerationsSerial(bodies []dynamo.Body, acc []dynamo.Vec2) {
	n := len(bodies)
	eps2 := f.Epsilon * f.Epsilon

	for i := 0; i < n; i++ {
		pi := bodies[i].Pos
		mi := bodies[i].Mass()

		for j := i + 1; j < n; j++ {
			p, ok := f.pull(pi, bodies[j].Pos, eps2)
			if !ok {
				continue
			}

			mj := bodies[j].Mass()
			acc[i].X += mj * p.X
			acc[i].Y += mj * p.Y
			acc[j].X -= mi * p.X
			acc[j].Y -= mi * p.Y
		}
	}
}

// accelerationsParallel splits the outer loop across workers. Every worker
// owns a private accumulator so no body is written concurrently; the
// accumulators are summed after all workers returned.
func (f *Gravity) accelerationsParallel(bodies []dynamo.Body, acc []dynamo.Vec2) {
	n := len(bodies)
	eps2 := f.Epsilon * f.Epsilon
	minChunk := parallelThreshold / 4

	workers := dynamo.Chunks(n, f.Workers, minChunk)
	local := make([][]dynamo.Vec2, workers)
	for w := range local {
		local[w] = make([]dynamo.Vec2, n)
	}

	dynamo.ParallelFor(n, workers, minChunk, func(worker, start, end int) {
		la := local[worker]
		for i := start; i < end; i++ {
			pi := bodies[i].Pos
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				p, ok := f.pull(pi, bodies[j].Pos, eps2)
				if !ok {
					continue
				}
				mj := bodies[j].Mass()
				la[i].X += mj * p.X
				la[i].Y += mj * p.Y
			}
		}
	})

	for w := range local {
		for i := 0; i < n; i++ {
			acc[i].X += local[w][i].X
			acc[i].Y += local[w][i].Y
		}
	}
}
