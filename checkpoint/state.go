package checkpoint

import "github.com/modsimlab/stride/sim"

// A State is a collection of data that can be serialized and deserialized.
type State interface {
	sim.Named

	Serialize() (map[string]interface{}, error)
	Deserialize(map[string]interface{}) error
}

// A StateHolder is an object whose state is captured in checkpoints.
type StateHolder interface {
	sim.Named

	State() State
	SetState(State)
}
