package element

import "github.com/modsimlab/stride/sim"

// Vec3 is one cartesian coordinate triple.
type Vec3 [3]float64

// A ForceProvider computes the forces acting on all particles. It is the
// boundary to the physical force kernels, which are outside the scheduler.
// The provider fills force in place and returns the potential energy and the
// scalar virial when they are requested.
type ForceProvider interface {
	ComputeForces(
		pos []Vec3,
		force []Vec3,
		calcEnergy bool,
		calcVirial bool,
	) (potential, virial float64, err error)
}

// A PairListBuilder rebuilds the particle neighbor list. It is invoked on
// neighbor-search steps only; between two rebuilds the particle topology is
// fixed.
type PairListBuilder interface {
	RebuildPairList(pos []Vec3) error
}

// A ConstraintSolver applies holonomic constraints to positions and
// velocities after propagation.
type ConstraintSolver interface {
	Constrain(pos, vel []Vec3, timeStep float64) error
}

// A Partitioner redistributes particles over domains. It is invoked at
// queue-population boundaries, which coincide with neighbor-search steps.
type Partitioner interface {
	Repartition(step sim.Step) error
}

// A LoadBalancer tunes kernel parameters from observed step timings. It is
// invoked at queue-population boundaries.
type LoadBalancer interface {
	// Active reports whether balancing is still ongoing.
	Active() bool

	// Balance feeds the average wall time per step of the last queue
	// window to the balancer.
	Balance(step sim.Step, avgStepSeconds float64)
}
