package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

func body(kind dynamo.Kind, m, x, y, vx, vy float64) dynamo.Body {
	b, err := dynamo.NewBody(kind, 1, "white", m, dynamo.Vec2{X: x, Y: y}, dynamo.Vec2{X: vx, Y: vy})
	Expect(err).NotTo(HaveOccurred())
	return b
}

func randomBodies(n int, seed int64) []dynamo.Body {
	rng := rand.New(rand.NewSource(seed))
	bodies := make([]dynamo.Body, n)
	for i := range bodies {
		bodies[i] = body(dynamo.KindPlanet, 0.5+rng.Float64(),
			rng.NormFloat64()*10, rng.NormFloat64()*10,
			rng.NormFloat64(), rng.NormFloat64())
	}
	return bodies
}

var _ = Describe("Gravity", func() {
	var g *physics.Gravity

	BeforeEach(func() {
		g = physics.NewGravity(1.0, physics.DefaultEpsilon, 1)
	})

	It("returns no accelerations for an empty system", func() {
		Expect(g.Accelerations(nil, nil)).To(BeEmpty())
	})

	It("follows the inverse square law for a single pair", func() {
		bodies := []dynamo.Body{
			body(dynamo.KindStar, 4, 0, 0, 0, 0),
			body(dynamo.KindPlanet, 2, 2, 0, 0, 0),
		}
		acc := g.Accelerations(bodies, nil)
		Expect(acc[0].X).To(BeNumerically("~", 2.0/4.0, 1e-15))
		Expect(acc[0].Y).To(BeZero())
		Expect(acc[1].X).To(BeNumerically("~", -4.0/4.0, 1e-15))
		Expect(acc[1].Y).To(BeZero())
	})

	It("exerts equal and opposite forces for every pair", func() {
		bodies := randomBodies(12, 7)
		for i := range bodies {
			for j := range bodies {
				if i == j {
					continue
				}
				fij := g.Force(bodies[i], bodies[j])
				fji := g.Force(bodies[j], bodies[i])
				scale := fij.Norm() * 1e-12
				Expect(fij.X + fji.X).To(BeNumerically("~", 0, scale))
				Expect(fij.Y + fji.Y).To(BeNumerically("~", 0, scale))
			}
		}
	})

	It("produces zero net mass-weighted acceleration", func() {
		bodies := randomBodies(20, 11)
		acc := g.Accelerations(bodies, nil)
		var net dynamo.Vec2
		var mag float64
		for i, b := range bodies {
			f := acc[i].Scale(b.Mass())
			net = net.Add(f)
			mag += f.Norm()
		}
		Expect(net.X).To(BeNumerically("~", 0, mag*1e-12))
		Expect(net.Y).To(BeNumerically("~", 0, mag*1e-12))
	})

	It("ignores coincident bodies without disturbing other pairs", func() {
		bodies := []dynamo.Body{
			body(dynamo.KindPlanet, 1, 1, 1, 0, 0),
			body(dynamo.KindPlanet, 2, 1, 1, 0, 0),
			body(dynamo.KindStar, 10, 4, 5, 0, 0),
		}
		acc := g.Accelerations(bodies, nil)
		for _, a := range acc {
			Expect(a.IsValid()).To(BeTrue())
		}

		// |(3,4)| = 5, so G*m/r³ * r = 10/125 * (3,4).
		Expect(acc[0].X).To(BeNumerically("~", 0.24, 1e-12))
		Expect(acc[0].Y).To(BeNumerically("~", 0.32, 1e-12))
		Expect(acc[1]).To(Equal(acc[0]))
		Expect(acc[2].X).To(BeNumerically("~", -3.0*3/125, 1e-12))
		Expect(acc[2].Y).To(BeNumerically("~", -3.0*4/125, 1e-12))

		Expect(g.Force(bodies[0], bodies[1])).To(Equal(dynamo.Vec2{}))
	})

	It("treats pairs closer than epsilon as coincident", func() {
		g.Epsilon = 1e-3
		bodies := []dynamo.Body{
			body(dynamo.KindPlanet, 1, 0, 0, 0, 0),
			body(dynamo.KindPlanet, 1, 5e-4, 0, 0, 0),
		}
		acc := g.Accelerations(bodies, nil)
		Expect(acc).To(Equal([]dynamo.Vec2{{}, {}}))
	})

	It("does not modify its input", func() {
		bodies := randomBodies(20, 3)
		before := dynamo.CloneBodies(bodies)
		g.Accelerations(bodies, nil)
		Expect(bodies).To(Equal(before))
	})

	It("reuses a large enough buffer", func() {
		bodies := randomBodies(5, 5)
		buf := make([]dynamo.Vec2, 5)
		buf[2] = dynamo.Vec2{X: 99, Y: 99}
		acc := g.Accelerations(bodies, buf)
		Expect(&acc[0]).To(BeIdenticalTo(&buf[0]))
		Expect(acc[2].X).NotTo(Equal(99.0))
	})

	It("matches the serial sum when evaluated in parallel", func() {
		bodies := randomBodies(64, 42)
		serial := g.Accelerations(bodies, nil)

		parallel := physics.NewGravity(1.0, physics.DefaultEpsilon, 4).Accelerations(bodies, nil)
		Expect(parallel).To(HaveLen(len(serial)))
		for i := range serial {
			tol := serial[i].Norm()*1e-9 + 1e-15
			Expect(parallel[i].X).To(BeNumerically("~", serial[i].X, tol))
			Expect(parallel[i].Y).To(BeNumerically("~", serial[i].Y, tol))
		}
	})
})

var _ = Describe("Diagnostics", func() {
	g := physics.NewGravity(2.0, physics.DefaultEpsilon, 1)

	It("computes energy of a two body system", func() {
		bodies := []dynamo.Body{
			body(dynamo.KindStar, 3, 0, 0, 0, 0),
			body(dynamo.KindPlanet, 1, 0, 2, 4, 0),
		}
		Expect(physics.KineticEnergy(bodies)).To(BeNumerically("~", 8, 1e-12))
		Expect(g.PotentialEnergy(bodies)).To(BeNumerically("~", -3, 1e-12))
		Expect(g.TotalEnergy(bodies)).To(BeNumerically("~", 5, 1e-12))
	})

	It("skips coincident pairs in the potential", func() {
		bodies := []dynamo.Body{
			body(dynamo.KindStar, 3, 1, 1, 0, 0),
			body(dynamo.KindPlanet, 1, 1, 1, 0, 0),
		}
		pe := g.PotentialEnergy(bodies)
		Expect(math.IsInf(pe, 0)).To(BeFalse())
		Expect(pe).To(BeZero())
	})

	It("computes momentum, angular momentum and center of mass", func() {
		bodies := []dynamo.Body{
			body(dynamo.KindStar, 3, 0, 0, 1, 0),
			body(dynamo.KindPlanet, 1, 4, 0, 0, 2),
		}
		Expect(physics.Momentum(bodies)).To(Equal(dynamo.Vec2{X: 3, Y: 2}))
		Expect(physics.AngularMomentum(bodies)).To(BeNumerically("~", 8, 1e-12))
		Expect(physics.CenterOfMass(bodies)).To(Equal(dynamo.Vec2{X: 1, Y: 0}))
		Expect(physics.Extent(bodies)).To(BeNumerically("~", 3, 1e-12))
	})
})

var _ = Describe("Kepler helpers", func() {
	It("gives one year for the Earth around the Sun", func() {
		period := physics.OrbitalPeriod(physics.DefaultG, 1.98892e30, 5.9742e24, 149.6e9)
		year := 365.25 * 24 * 3600.0
		Expect(math.Abs(period-year) / year).To(BeNumerically("<", 5e-3))
	})

	It("circularizes planets at rest around the heaviest star", func() {
		bodies := []dynamo.Body{
			body(dynamo.KindStar, 1, 10, 0, 0, 0),
			body(dynamo.KindStar, 100, 0, 0, 0, 0),
			body(dynamo.KindPlanet, 1, 0, 5, 0, 0),
			body(dynamo.KindPlanet, 1, 0, -5, 1, 1),
		}
		n := physics.CircularizeOrbits(1.0, bodies)
		Expect(n).To(Equal(1))

		v := physics.CircularSpeed(1.0, 100, 1, 5)
		Expect(bodies[2].Vel.X).To(BeNumerically("~", -v, 1e-12))
		Expect(bodies[2].Vel.Y).To(BeNumerically("~", 0, 1e-12))
		Expect(bodies[3].Vel).To(Equal(dynamo.Vec2{X: 1, Y: 1}))
	})
})
