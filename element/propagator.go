package element

import (
	"fmt"

	"github.com/modsimlab/stride/sim"
)

// A Propagator advances positions and velocities by one time step using the
// leap-frog scheme. It is the only per-step writer of the state data. A
// thermostat can scale the velocities during the update through a declared
// connection; a barostat can scale the box between updates.
type Propagator struct {
	tag      string
	state    *StateData
	timeStep float64

	constraints ConstraintSolver

	// scalingFactor is set by a connected thermostat and consumed by the
	// next update.
	scalingFactor float64
}

// NewPropagator creates a Propagator advancing the given state data.
func NewPropagator(tag string, state *StateData, timeStep float64) *Propagator {
	return &Propagator{
		tag:           tag,
		state:         state,
		timeStep:      timeStep,
		scalingFactor: 1.0,
	}
}

// WithConstraints sets the constraint solver applied after each update.
func (p *Propagator) WithConstraints(c ConstraintSolver) *Propagator {
	p.constraints = c
	return p
}

// Tag returns the connection tag of the propagator.
func (p *Propagator) Tag() string {
	return p.tag
}

// ThermostatConnection declares the velocity-scaling connection offered to
// temperature-coupling elements.
func (p *Propagator) ThermostatConnection() ThermostatConnection {
	return ThermostatConnection{
		PropagatorTag: p.tag,
		SetVelocityScaling: func(factor float64) {
			p.scalingFactor = factor
		},
	}
}

// BarostatConnection declares the box-scaling connection offered to
// pressure-coupling elements.
func (p *Propagator) BarostatConnection() BarostatConnection {
	return BarostatConnection{
		PropagatorTag:        p.tag,
		ScaleBoxAndPositions: p.state.ScaleBox,
	}
}

// ElementSetup validates the time step.
func (p *Propagator) ElementSetup() error {
	if p.timeStep <= 0 {
		return fmt.Errorf("propagator %s: time step must be positive, got %f",
			p.tag, p.timeStep)
	}

	return nil
}

// ScheduleTask registers one propagation task per step.
func (p *Propagator) ScheduleTask(
	_ sim.Step,
	_ sim.Time,
	register sim.RegisterTaskFunc,
) error {
	register(p.propagate)
	return nil
}

// ElementTeardown does nothing.
func (p *Propagator) ElementTeardown() error {
	return nil
}

func (p *Propagator) propagate() error {
	pos := p.state.Positions()
	vel := p.state.Velocities()
	force := p.state.Forces()
	masses := p.state.Masses()

	factor := p.scalingFactor
	p.scalingFactor = 1.0

	for i := range pos {
		invMass := 1.0 / masses[i]
		for j := 0; j < 3; j++ {
			vel[i][j] = factor * (vel[i][j] + force[i][j]*invMass*p.timeStep)
			pos[i][j] += vel[i][j] * p.timeStep
		}
	}

	if p.constraints != nil {
		return p.constraints.Constrain(pos, vel, p.timeStep)
	}

	return nil
}
