package sim

// A Callback is invoked by a signaller to notify a client of an upcoming
// lifecycle event at the given step.
type Callback func(step Step, time Time)

// A Signaller broadcasts upcoming lifecycle events to registered clients once
// per step. Its client list is frozen when the owning algorithm is built.
type Signaller interface {
	// SignallerSetup is called once before the first step.
	SignallerSetup() error

	// Signal decides whether the step/time pair constitutes one of the
	// signaller's event kinds and, if so, invokes every registered client
	// callback in registration order.
	Signal(step Step, time Time)
}
