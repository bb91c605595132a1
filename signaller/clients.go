package signaller

import "github.com/modsimlab/stride/sim"

// A NeighborSearchClient is notified on steps at which neighbor searching
// occurs. Returning a nil callback opts out.
type NeighborSearchClient interface {
	NeighborSearchCallback() sim.Callback
}

// A LastStepClient is notified on the last step of the run. The last step is
// only known lazily, either from the configured step count or from a planned
// stop. Returning a nil callback opts out.
type LastStepClient interface {
	LastStepCallback() sim.Callback
}

// A LoggingClient is notified on steps at which the simulation log is
// written. Returning a nil callback opts out.
type LoggingClient interface {
	LoggingCallback() sim.Callback
}

// A TrajectoryClient is notified on steps at which trajectory output occurs.
// A client is asked once per event kind and returns nil for kinds it is not
// interested in.
type TrajectoryClient interface {
	TrajectoryCallback(event TrajectoryEvent) sim.Callback
}

// An EnergyClient is notified on steps at which energies, the virial, or
// free-energy contributions must be calculated. A client is asked once per
// event kind and returns nil for kinds it is not interested in.
type EnergyClient interface {
	EnergyCallback(event EnergyEvent) sim.Callback
}
