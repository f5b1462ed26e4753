package dynamo

import (
	"fmt"
	"math"
	"strings"
)

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

type Kind int

const (
	KindStar Kind = iota + 1
	KindPlanet
)

func (k Kind) String() string {
	switch k {
	case KindStar:
		return "Star"
	case KindPlanet:
		return "Planet"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind matches a kind token case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "star":
		return KindStar, nil
	case "planet":
		return KindPlanet, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Body is a point mass. Pos and Vel are advanced by the integrator; the
// remaining attributes are fixed at construction.
type Body struct {
	Pos Vec2
	Vel Vec2

	kind   Kind
	label  string
	mass   float64
	radius float64
	color  string
}

// NewBody validates the physical attributes and returns a body labelled
// with the canonical kind name.
func NewBody(kind Kind, radius float64, color string, mass float64, pos, vel Vec2) (Body, error) {
	return NewLabelledBody(kind, kind.String(), radius, color, mass, pos, vel)
}

// NewLabelledBody is NewBody with the kind token kept as supplied, so that
// a saved scenario echoes it back unchanged.
func NewLabelledBody(kind Kind, label string, radius float64, color string, mass float64, pos, vel Vec2) (Body, error) {
	if kind != KindStar && kind != KindPlanet {
		return Body{}, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
	if !(mass > 0) || math.IsInf(mass, 0) {
		return Body{}, fmt.Errorf("%w: got %v", ErrNonPositiveMass, mass)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return Body{}, fmt.Errorf("%w: got %v", ErrNonPositiveRadius, radius)
	}
	if !pos.IsValid() || !vel.IsValid() {
		return Body{}, ErrInvalidState
	}
	if label == "" {
		label = kind.String()
	}
	return Body{
		Pos:    pos,
		Vel:    vel,
		kind:   kind,
		label:  label,
		mass:   mass,
		radius: radius,
		color:  color,
	}, nil
}

func (b Body) Kind() Kind         { return b.kind }
func (b Body) Label() string      { return b.label }
func (b Body) Mass() float64      { return b.mass }
func (b Body) Radius() float64    { return b.radius }
func (b Body) Color() string      { return b.color }
func (b Body) Momentum() Vec2     { return b.Vel.Scale(b.mass) }
func (b Body) Drawable() Drawable { return Drawable{Pos: b.Pos, Radius: b.radius, Color: b.color} }

// Validate reports whether b was built through NewBody and still holds a
// finite state.
func (b Body) Validate() error {
	if !(b.mass > 0) || math.IsInf(b.mass, 0) {
		return ErrNonPositiveMass
	}
	if !b.Pos.IsValid() || !b.Vel.IsValid() {
		return ErrInvalidState
	}
	return nil
}

// Drawable is everything a renderer needs from a body.
type Drawable struct {
	Pos    Vec2
	Radius float64
	Color  string
}

// CloneBodies returns an independent copy of bodies.
func CloneBodies(bodies []Body) []Body {
	c := make([]Body, len(bodies))
	copy(c, bodies)
	return c
}

// ForceField evaluates the acceleration of every body from a fixed
// snapshot. Implementations must not modify bodies. The result is written
// into acc when it is large enough.
type ForceField interface {
	Accelerations(bodies []Body, acc []Vec2) []Vec2
}

// Integrator advances bodies in place by one timestep using accelerations
// evaluated on the pre-step snapshot.
type Integrator interface {
	Name() string
	Step(bodies []Body, acc []Vec2, dt float64)
}

type Metric interface {
	Name() string
	Observe(bodies []Body, t float64)
	Value() float64
	Reset()
}

// Observer is notified after each published step. bodies is only valid
// for the duration of the call; copy it to keep it.
type Observer interface {
	OnStep(bodies []Body, step int, t float64)
}
