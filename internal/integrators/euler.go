package integrators

import "github.com/san-kum/gravsim/internal/dynamo"

// SemiImplicitEuler is the symplectic Euler scheme. The velocity is updated
// first and the position advances with the updated velocity.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Name() string { return "symplectic-euler" }

func (e *SemiImplicitEuler) Step(bodies []dynamo.Body, acc []dynamo.Vec2, dt float64) {
	for i := range bodies {
		b := &bodies[i]
		b.Vel.X += acc[i].X * dt
		b.Vel.Y += acc[i].Y * dt
		b.Pos.X += b.Vel.X * dt
		b.Pos.Y += b.Vel.Y * dt
	}
}
