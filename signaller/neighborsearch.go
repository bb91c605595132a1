package signaller

import "github.com/modsimlab/stride/sim"

// NeighborSearch signals the steps at which the particle neighbor list is
// rebuilt. The neighbor-search interval bounds how far ahead the task queue
// may be planned, so this signaller fires before all others.
type NeighborSearch struct {
	interval sim.Step
	initStep sim.Step

	callbacks []sim.Callback
}

// SignallerSetup does nothing. All inputs of the neighbor-search signaller
// are static.
func (s *NeighborSearch) SignallerSetup() error {
	return nil
}

// Signal notifies all clients if the step is a neighbor-search step. The
// first step of the run always is one.
func (s *NeighborSearch) Signal(step sim.Step, time sim.Time) {
	if step != s.initStep && !sim.DoPerStep(step, s.interval) {
		return
	}

	for _, cb := range s.callbacks {
		cb(step, time)
	}
}

// NeighborSearchBuilder builds a NeighborSearch signaller.
type NeighborSearchBuilder struct {
	interval sim.Step
	initStep sim.Step
	clients  []NeighborSearchClient
}

// MakeNeighborSearchBuilder creates a NeighborSearchBuilder.
func MakeNeighborSearchBuilder() NeighborSearchBuilder {
	return NeighborSearchBuilder{}
}

// WithInterval sets the neighbor-search interval in steps.
func (b NeighborSearchBuilder) WithInterval(
	interval sim.Step,
) NeighborSearchBuilder {
	b.interval = interval
	return b
}

// WithInitStep sets the first step of the run.
func (b NeighborSearchBuilder) WithInitStep(
	initStep sim.Step,
) NeighborSearchBuilder {
	b.initStep = initStep
	return b
}

// RegisterClient adds a client to be notified on neighbor-search steps.
func (b NeighborSearchBuilder) RegisterClient(
	c NeighborSearchClient,
) NeighborSearchBuilder {
	b.clients = append(b.clients, c)
	return b
}

// Build creates the signaller with the client list frozen in registration
// order.
func (b NeighborSearchBuilder) Build() *NeighborSearch {
	s := &NeighborSearch{
		interval: b.interval,
		initStep: b.initStep,
	}

	for _, c := range b.clients {
		if cb := c.NeighborSearchCallback(); cb != nil {
			s.callbacks = append(s.callbacks, cb)
		}
	}

	return s
}
