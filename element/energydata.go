package element

import (
	"log"

	"github.com/modsimlab/stride/signaller"
	"github.com/modsimlab/stride/sim"
)

// EnergyData owns the energetic observables of the run: the potential energy
// and virial deposited by the force element, and the kinetic energy derived
// from the velocities. The values are only valid for steps on which the
// energy signaller requested a calculation.
type EnergyData struct {
	sim.NamedBase

	state *StateData

	kinetic   float64
	potential float64
	virial    float64

	sumTotal  float64
	calcCount int64
	ndf       float64
}

// NewEnergyData creates an EnergyData deriving observables from the given
// state data.
func NewEnergyData(state *StateData) *EnergyData {
	return &EnergyData{
		NamedBase: sim.MakeNamedBase("energy_data"),
		state:     state,
	}
}

// SetPotential deposits the potential energy of the current step. It is
// called by the force element.
func (d *EnergyData) SetPotential(potential float64) {
	d.potential = potential
}

// SetVirial deposits the scalar virial of the current step. It is called by
// the force element.
func (d *EnergyData) SetVirial(virial float64) {
	d.virial = virial
}

// Kinetic returns the kinetic energy of the last calculation step.
func (d *EnergyData) Kinetic() float64 {
	return d.kinetic
}

// Potential returns the potential energy of the last calculation step.
func (d *EnergyData) Potential() float64 {
	return d.potential
}

// Total returns the total energy of the last calculation step.
func (d *EnergyData) Total() float64 {
	return d.kinetic + d.potential
}

// Temperature returns the instantaneous temperature in reduced units.
func (d *EnergyData) Temperature() float64 {
	if d.ndf == 0 {
		return 0
	}

	return 2 * d.kinetic / d.ndf
}

// Pressure returns the instantaneous pressure in reduced units.
func (d *EnergyData) Pressure() float64 {
	volume := d.state.Volume()
	if volume == 0 {
		return 0
	}

	return (2*d.kinetic - d.virial) / (3 * volume)
}

// Element returns the element that performs the per-step energy accounting.
func (d *EnergyData) Element() *EnergyElement {
	return &EnergyElement{data: d, calcStep: -1}
}

// An EnergyElement updates the kinetic-energy accounting on the steps the
// energy signaller requests.
type EnergyElement struct {
	data     *EnergyData
	calcStep sim.Step
}

// ElementSetup derives the number of degrees of freedom from the state data.
func (e *EnergyElement) ElementSetup() error {
	e.data.ndf = 3 * float64(e.data.state.NumParticles())
	return nil
}

// ScheduleTask registers the kinetic-energy update on calculation steps.
func (e *EnergyElement) ScheduleTask(
	step sim.Step,
	_ sim.Time,
	register sim.RegisterTaskFunc,
) error {
	if step != e.calcStep {
		return nil
	}

	register(func() error {
		e.data.kinetic = e.data.state.KineticEnergy()
		e.data.sumTotal += e.data.Total()
		e.data.calcCount++
		return nil
	})

	return nil
}

// ElementTeardown logs the average total energy over the run.
func (e *EnergyElement) ElementTeardown() error {
	if e.data.calcCount > 0 {
		log.Printf("average total energy over %d samples: %f",
			e.data.calcCount, e.data.sumTotal/float64(e.data.calcCount))
	}

	return nil
}

// EnergyCallback records upcoming energy-calculation steps.
func (e *EnergyElement) EnergyCallback(
	event signaller.EnergyEvent,
) sim.Callback {
	if event != signaller.EnergyCalculationStep {
		return nil
	}

	return func(step sim.Step, _ sim.Time) {
		e.calcStep = step
	}
}
