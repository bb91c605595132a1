package signaller

import "github.com/modsimlab/stride/sim"

// Trajectory signals the steps at which trajectory output occurs. State
// frames and energy rows have independent intervals; both are also written on
// the last step so that a run always ends with a complete final frame.
type Trajectory struct {
	stateInterval  sim.Step
	energyInterval sim.Step
	lastStep       sim.Step

	stateCallbacks  []sim.Callback
	energyCallbacks []sim.Callback
}

// SignallerSetup does nothing.
func (s *Trajectory) SignallerSetup() error {
	return nil
}

// Signal notifies the clients of each event kind that is due at the step.
func (s *Trajectory) Signal(step sim.Step, time sim.Time) {
	if sim.DoPerStep(step, s.stateInterval) || step == s.lastStep {
		for _, cb := range s.stateCallbacks {
			cb(step, time)
		}
	}

	if sim.DoPerStep(step, s.energyInterval) || step == s.lastStep {
		for _, cb := range s.energyCallbacks {
			cb(step, time)
		}
	}
}

// LastStepCallback records the last step, on which all output kinds are due.
func (s *Trajectory) LastStepCallback() sim.Callback {
	return func(step sim.Step, _ sim.Time) {
		s.lastStep = step
	}
}

// TrajectoryBuilder builds a Trajectory signaller.
type TrajectoryBuilder struct {
	stateInterval  sim.Step
	energyInterval sim.Step
	clients        []TrajectoryClient
}

// MakeTrajectoryBuilder creates a TrajectoryBuilder.
func MakeTrajectoryBuilder() TrajectoryBuilder {
	return TrajectoryBuilder{}
}

// WithStateInterval sets the state-frame writing interval in steps.
func (b TrajectoryBuilder) WithStateInterval(
	interval sim.Step,
) TrajectoryBuilder {
	b.stateInterval = interval
	return b
}

// WithEnergyInterval sets the energy-row writing interval in steps.
func (b TrajectoryBuilder) WithEnergyInterval(
	interval sim.Step,
) TrajectoryBuilder {
	b.energyInterval = interval
	return b
}

// RegisterClient adds a client to be notified on trajectory-writing steps.
func (b TrajectoryBuilder) RegisterClient(c TrajectoryClient) TrajectoryBuilder {
	b.clients = append(b.clients, c)
	return b
}

// Build creates the signaller with the client lists frozen in registration
// order.
func (b TrajectoryBuilder) Build() *Trajectory {
	s := &Trajectory{
		stateInterval:  b.stateInterval,
		energyInterval: b.energyInterval,
		lastStep:       -1,
	}

	for _, c := range b.clients {
		if cb := c.TrajectoryCallback(StateWritingStep); cb != nil {
			s.stateCallbacks = append(s.stateCallbacks, cb)
		}

		if cb := c.TrajectoryCallback(EnergyWritingStep); cb != nil {
			s.energyCallbacks = append(s.energyCallbacks, cb)
		}
	}

	return s
}
