// Package dynamo provides the core primitives of the gravity simulator.
//
// The package defines the data model and the contracts between the
// physics components:
//
//   - [Vec2]: 2D vector used for positions, velocities and accelerations
//   - [Body]: a point mass with display attributes
//   - [ForceField]: evaluates accelerations for a body snapshot
//   - [Integrator]: advances bodies by one fixed timestep
//   - [Metric] and [Observer]: hooks invoked after every completed step
//
// # Example
//
//	sun, _ := dynamo.NewBody(dynamo.KindStar, 30, "yellow", 1.989e30, dynamo.Vec2{}, dynamo.Vec2{})
//	field := physics.NewGravity(physics.DefaultG, physics.DefaultEpsilon, 1)
//	clock, _ := sim.New([]dynamo.Body{sun}, field, integrators.NewSemiImplicitEuler(), sim.Config{Dt: 3600})
//	clock.Step()
//
// # Ownership
//
// Only Pos and Vel of a Body change during a run. Mass, radius, color and
// kind are fixed at construction and read through accessors.
package dynamo
