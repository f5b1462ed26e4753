// Package physics provides the gravitational force field and the
// conserved quantities used to check a run.
//
// [Gravity] implements [dynamo.ForceField]: an O(N²) all-pairs sum of
// Newtonian accelerations. Pairs closer than Gravity.Epsilon contribute
// nothing, so coincident bodies never produce NaN or Inf. Large body sets
// are split across Gravity.Workers goroutines.
//
// # Conservation
//
// Use the diagnostics to monitor a run:
//
//	g := physics.NewGravity(physics.DefaultG, physics.DefaultEpsilon, 0)
//	e0 := g.TotalEnergy(bodies)
//	p0 := physics.Momentum(bodies)
package physics
