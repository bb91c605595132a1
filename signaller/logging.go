package signaller

import "github.com/modsimlab/stride/sim"

// Logging signals the steps at which the simulation log is written. The log
// is always written on the last step, so this signaller listens to the
// last-step signaller and must fire after it.
type Logging struct {
	interval sim.Step
	initStep sim.Step
	lastStep sim.Step

	callbacks []sim.Callback
}

// SignallerSetup does nothing.
func (s *Logging) SignallerSetup() error {
	return nil
}

// Signal notifies all clients if the step is a logging step.
func (s *Logging) Signal(step sim.Step, time sim.Time) {
	if step != s.initStep && step != s.lastStep &&
		!sim.DoPerStep(step, s.interval) {
		return
	}

	for _, cb := range s.callbacks {
		cb(step, time)
	}
}

// LastStepCallback records the last step, which is always a logging step.
func (s *Logging) LastStepCallback() sim.Callback {
	return func(step sim.Step, _ sim.Time) {
		s.lastStep = step
	}
}

// LoggingBuilder builds a Logging signaller.
type LoggingBuilder struct {
	interval sim.Step
	initStep sim.Step
	clients  []LoggingClient
}

// MakeLoggingBuilder creates a LoggingBuilder.
func MakeLoggingBuilder() LoggingBuilder {
	return LoggingBuilder{}
}

// WithInterval sets the logging interval in steps.
func (b LoggingBuilder) WithInterval(interval sim.Step) LoggingBuilder {
	b.interval = interval
	return b
}

// WithInitStep sets the first step of the run.
func (b LoggingBuilder) WithInitStep(initStep sim.Step) LoggingBuilder {
	b.initStep = initStep
	return b
}

// RegisterClient adds a client to be notified on logging steps.
func (b LoggingBuilder) RegisterClient(c LoggingClient) LoggingBuilder {
	b.clients = append(b.clients, c)
	return b
}

// Build creates the signaller with the client list frozen in registration
// order.
func (b LoggingBuilder) Build() *Logging {
	s := &Logging{
		interval: b.interval,
		initStep: b.initStep,
		lastStep: -1,
	}

	for _, c := range b.clients {
		if cb := c.LoggingCallback(); cb != nil {
			s.callbacks = append(s.callbacks, cb)
		}
	}

	return s
}
