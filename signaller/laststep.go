package signaller

import "github.com/modsimlab/stride/sim"

// A StopQuerier reports whether an externally signalled stop condition
// requires the run to end after the current step.
type StopQuerier interface {
	StoppingAfterCurrentStep(isNSStep bool) bool
}

// LastStep signals the final step of the run. The planned last step follows
// from the configured step count, but a stop condition can move it forward to
// the current neighbor-search step. Clients therefore only learn the actual
// last step when this signaller fires.
type LastStep struct {
	lastStep   sim.Step
	nextNSStep sim.Step
	stop       StopQuerier

	signalledStop bool
	callbacks     []sim.Callback
}

// SignallerSetup does nothing. The planned last step is static and the stop
// querier is validated at build time.
func (s *LastStep) SignallerSetup() error {
	return nil
}

// Signal notifies all clients if the step is the last step of the run.
func (s *LastStep) Signal(step sim.Step, time sim.Time) {
	if !s.signalledStop &&
		s.stop.StoppingAfterCurrentStep(step == s.nextNSStep) {
		s.signalledStop = true
		s.lastStep = step
	}

	if step != s.lastStep {
		return
	}

	for _, cb := range s.callbacks {
		cb(step, time)
	}
}

// NeighborSearchCallback records the current neighbor-search step. The stop
// querier uses it to let a planned stop end the run at a neighbor-search
// step without invalidating queued work.
func (s *LastStep) NeighborSearchCallback() sim.Callback {
	return func(step sim.Step, _ sim.Time) {
		s.nextNSStep = step
	}
}

// LastStepBuilder builds a LastStep signaller.
type LastStepBuilder struct {
	nsteps   sim.Step
	initStep sim.Step
	stop     StopQuerier
	clients  []LastStepClient
}

// MakeLastStepBuilder creates a LastStepBuilder.
func MakeLastStepBuilder() LastStepBuilder {
	return LastStepBuilder{}
}

// WithNumSteps sets the number of steps of the run.
func (b LastStepBuilder) WithNumSteps(nsteps sim.Step) LastStepBuilder {
	b.nsteps = nsteps
	return b
}

// WithInitStep sets the first step of the run.
func (b LastStepBuilder) WithInitStep(initStep sim.Step) LastStepBuilder {
	b.initStep = initStep
	return b
}

// WithStopQuerier sets the stop querier consulted at neighbor-search steps.
func (b LastStepBuilder) WithStopQuerier(stop StopQuerier) LastStepBuilder {
	b.stop = stop
	return b
}

// RegisterClient adds a client to be notified on the last step.
func (b LastStepBuilder) RegisterClient(c LastStepClient) LastStepBuilder {
	b.clients = append(b.clients, c)
	return b
}

// Build creates the signaller with the client list frozen in registration
// order. A missing stop querier is a configuration error.
func (b LastStepBuilder) Build() *LastStep {
	if b.stop == nil {
		panic("last-step signaller built without a stop querier")
	}

	s := &LastStep{
		lastStep: b.initStep + b.nsteps,
		// The first signal call is always a neighbor-search step.
		nextNSStep: b.initStep,
		stop:       b.stop,
	}

	for _, c := range b.clients {
		if cb := c.LastStepCallback(); cb != nil {
			s.callbacks = append(s.callbacks, cb)
		}
	}

	return s
}
