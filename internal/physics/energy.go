package physics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func KineticEnergy(bodies []dynamo.Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += 0.5 * b.Mass() * b.Vel.Dot(b.Vel)
	}
	return ke
}

// PotentialEnergy sums -G*mi*mj/r over pairs separated by at least Epsilon.
func (f *Gravity) PotentialEnergy(bodies []dynamo.Body) float64 {
	pe := 0.0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			r := bodies[j].Pos.Sub(bodies[i].Pos).Norm()
			if r < f.Epsilon || r == 0 {
				continue
			}
			pe -= f.G * bodies[i].Mass() * bodies[j].Mass() / r
		}
	}
	return pe
}

func (f *Gravity) TotalEnergy(bodies []dynamo.Body) float64 {
	return KineticEnergy(bodies) + f.PotentialEnergy(bodies)
}

func Momentum(bodies []dynamo.Body) dynamo.Vec2 {
	var p dynamo.Vec2
	for _, b := range bodies {
		p = p.Add(b.Momentum())
	}
	return p
}

// AngularMomentum is the z component of Σ r × p about the origin.
func AngularMomentum(bodies []dynamo.Body) float64 {
	L := 0.0
	for _, b := range bodies {
		L += b.Mass() * b.Pos.Cross(b.Vel)
	}
	return L
}

func TotalMass(bodies []dynamo.Body) float64 {
	m := 0.0
	for _, b := range bodies {
		m += b.Mass()
	}
	return m
}

func CenterOfMass(bodies []dynamo.Body) dynamo.Vec2 {
	m := TotalMass(bodies)
	if m == 0 {
		return dynamo.Vec2{}
	}
	var c dynamo.Vec2
	for _, b := range bodies {
		c = c.Add(b.Pos.Scale(b.Mass()))
	}
	return c.Scale(1 / m)
}

// Extent returns the largest distance of any body from the center of mass.
func Extent(bodies []dynamo.Body) float64 {
	c := CenterOfMass(bodies)
	r := 0.0
	for _, b := range bodies {
		r = math.Max(r, b.Pos.Sub(c).Norm())
	}
	return r
}
