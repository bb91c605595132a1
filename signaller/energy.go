package signaller

import "github.com/modsimlab/stride/sim"

// Energy signals the steps at which energies, the virial, or free-energy
// contributions must be calculated. An energy-writing step always requires an
// energy calculation, so this signaller listens to the trajectory signaller
// and must fire after it.
type Energy struct {
	calcInterval       sim.Step
	virialInterval     sim.Step
	freeEnergyInterval sim.Step

	energyWritingStep sim.Step

	calcCallbacks       []sim.Callback
	virialCallbacks     []sim.Callback
	freeEnergyCallbacks []sim.Callback
}

// SignallerSetup does nothing.
func (s *Energy) SignallerSetup() error {
	return nil
}

// Signal notifies the clients of each event kind that is due at the step.
func (s *Energy) Signal(step sim.Step, time sim.Time) {
	calcDue := sim.DoPerStep(step, s.calcInterval) ||
		step == s.energyWritingStep
	virialDue := sim.DoPerStep(step, s.virialInterval) || calcDue

	if calcDue {
		for _, cb := range s.calcCallbacks {
			cb(step, time)
		}
	}

	if virialDue {
		for _, cb := range s.virialCallbacks {
			cb(step, time)
		}
	}

	if sim.DoPerStep(step, s.freeEnergyInterval) {
		for _, cb := range s.freeEnergyCallbacks {
			cb(step, time)
		}
	}
}

// TrajectoryCallback records upcoming energy-writing steps, which force an
// energy calculation regardless of the calculation interval.
func (s *Energy) TrajectoryCallback(event TrajectoryEvent) sim.Callback {
	if event != EnergyWritingStep {
		return nil
	}

	return func(step sim.Step, _ sim.Time) {
		s.energyWritingStep = step
	}
}

// EnergyBuilder builds an Energy signaller.
type EnergyBuilder struct {
	calcInterval       sim.Step
	virialInterval     sim.Step
	freeEnergyInterval sim.Step
	clients            []EnergyClient
}

// MakeEnergyBuilder creates an EnergyBuilder.
func MakeEnergyBuilder() EnergyBuilder {
	return EnergyBuilder{}
}

// WithCalculationInterval sets the energy-calculation interval in steps.
func (b EnergyBuilder) WithCalculationInterval(interval sim.Step) EnergyBuilder {
	b.calcInterval = interval
	return b
}

// WithVirialInterval sets the virial-calculation interval in steps. The
// virial is additionally calculated on every energy-calculation step.
func (b EnergyBuilder) WithVirialInterval(interval sim.Step) EnergyBuilder {
	b.virialInterval = interval
	return b
}

// WithFreeEnergyInterval sets the free-energy calculation interval in steps.
func (b EnergyBuilder) WithFreeEnergyInterval(interval sim.Step) EnergyBuilder {
	b.freeEnergyInterval = interval
	return b
}

// RegisterClient adds a client to be notified on calculation steps.
func (b EnergyBuilder) RegisterClient(c EnergyClient) EnergyBuilder {
	b.clients = append(b.clients, c)
	return b
}

// Build creates the signaller with the client lists frozen in registration
// order.
func (b EnergyBuilder) Build() *Energy {
	s := &Energy{
		calcInterval:       b.calcInterval,
		virialInterval:     b.virialInterval,
		freeEnergyInterval: b.freeEnergyInterval,
		energyWritingStep:  -1,
	}

	for _, c := range b.clients {
		if cb := c.EnergyCallback(EnergyCalculationStep); cb != nil {
			s.calcCallbacks = append(s.calcCallbacks, cb)
		}

		if cb := c.EnergyCallback(VirialCalculationStep); cb != nil {
			s.virialCallbacks = append(s.virialCallbacks, cb)
		}

		if cb := c.EnergyCallback(FreeEnergyCalculationStep); cb != nil {
			s.freeEnergyCallbacks = append(s.freeEnergyCallbacks, cb)
		}
	}

	return s
}
