package physics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// CircularSpeed is the relative speed of two bodies on a circular orbit
// with separation d.
func CircularSpeed(g, m1, m2, d float64) float64 {
	return math.Sqrt(g * (m1 + m2) / d)
}

// OrbitalPeriod follows Kepler's third law for a circular orbit of radius d.
func OrbitalPeriod(g, m1, m2, d float64) float64 {
	return 2 * math.Pi * math.Sqrt(d*d*d/(g*(m1+m2)))
}

// CircularizeOrbits gives every planet that starts at rest the circular
// speed around the heaviest star, perpendicular to the star-planet line.
// It returns the number of bodies changed.
func CircularizeOrbits(g float64, bodies []dynamo.Body) int {
	center := -1
	for i, b := range bodies {
		if b.Kind() != dynamo.KindStar {
			continue
		}
		if center == -1 || b.Mass() > bodies[center].Mass() {
			center = i
		}
	}
	if center == -1 {
		return 0
	}

	c := bodies[center]
	changed := 0
	for i := range bodies {
		b := &bodies[i]
		if i == center || b.Kind() != dynamo.KindPlanet || b.Vel != (dynamo.Vec2{}) {
			continue
		}
		r := b.Pos.Sub(c.Pos)
		d := r.Norm()
		if d == 0 {
			continue
		}
		v := CircularSpeed(g, c.Mass(), b.Mass(), d)
		b.Vel = c.Vel.Add(dynamo.Vec2{X: -r.Y / d * v, Y: r.X / d * v})
		changed++
	}
	return changed
}
