package element

import (
	"fmt"
	"math"

	"github.com/modsimlab/stride/sim"
)

// A VelocityScalingThermostat drives the instantaneous temperature towards a
// reference value by weak coupling. On coupling steps it computes a scaling
// factor and feeds it to every connected propagator; the propagator applies
// the factor during its next velocity update.
type VelocityScalingThermostat struct {
	energy *EnergyData

	refTemperature float64
	tau            float64
	interval       sim.Step
	timeStep       float64

	setScaling []func(factor float64)
}

// NewVelocityScalingThermostat creates a thermostat coupling to the given
// reference temperature with coupling time tau, acting every interval steps.
func NewVelocityScalingThermostat(
	energy *EnergyData,
	refTemperature, tau float64,
	interval sim.Step,
	timeStep float64,
) *VelocityScalingThermostat {
	return &VelocityScalingThermostat{
		energy:         energy,
		refTemperature: refTemperature,
		tau:            tau,
		interval:       interval,
		timeStep:       timeStep,
	}
}

// ConnectionRegistration returns the function the algorithm builder calls
// for every declared thermostat connection. The thermostat couples to every
// propagator that offers one.
func (t *VelocityScalingThermostat) ConnectionRegistration() func(ThermostatConnection) {
	return func(conn ThermostatConnection) {
		t.setScaling = append(t.setScaling, conn.SetVelocityScaling)
	}
}

// ElementSetup validates the coupling parameters and that at least one
// propagator connection was resolved.
func (t *VelocityScalingThermostat) ElementSetup() error {
	if t.tau <= 0 {
		return fmt.Errorf("thermostat coupling time must be positive, got %f",
			t.tau)
	}

	if len(t.setScaling) == 0 {
		return fmt.Errorf("thermostat has no propagator connection")
	}

	return nil
}

// ScheduleTask registers the scaling-factor update on coupling steps.
func (t *VelocityScalingThermostat) ScheduleTask(
	step sim.Step,
	_ sim.Time,
	register sim.RegisterTaskFunc,
) error {
	if !sim.DoPerStep(step, t.interval) {
		return nil
	}

	register(t.couple)
	return nil
}

// ElementTeardown does nothing.
func (t *VelocityScalingThermostat) ElementTeardown() error {
	return nil
}

func (t *VelocityScalingThermostat) couple() error {
	current := t.energy.Temperature()
	if current <= 0 {
		return nil
	}

	factor := math.Sqrt(1 + float64(t.interval)*t.timeStep/t.tau*
		(t.refTemperature/current-1))

	// Large instantaneous fluctuations must not destabilize the
	// integration.
	factor = math.Max(0.8, math.Min(1.25, factor))

	for _, set := range t.setScaling {
		set(factor)
	}

	return nil
}
