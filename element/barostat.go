package element

import (
	"fmt"
	"math"

	"github.com/modsimlab/stride/sim"
)

// A ConstantPressureBarostat drives the instantaneous pressure towards a
// reference value by weak coupling. On coupling steps it computes a box
// scaling factor and feeds it to every connected propagator, which scales
// the box and the positions.
type ConstantPressureBarostat struct {
	energy *EnergyData

	refPressure     float64
	tau             float64
	compressibility float64
	interval        sim.Step
	timeStep        float64

	scaleBox []func(factor float64)
}

// NewConstantPressureBarostat creates a barostat coupling to the given
// reference pressure with coupling time tau, acting every interval steps.
func NewConstantPressureBarostat(
	energy *EnergyData,
	refPressure, tau, compressibility float64,
	interval sim.Step,
	timeStep float64,
) *ConstantPressureBarostat {
	return &ConstantPressureBarostat{
		energy:          energy,
		refPressure:     refPressure,
		tau:             tau,
		compressibility: compressibility,
		interval:        interval,
		timeStep:        timeStep,
	}
}

// ConnectionRegistration returns the function the algorithm builder calls
// for every declared barostat connection.
func (b *ConstantPressureBarostat) ConnectionRegistration() func(BarostatConnection) {
	return func(conn BarostatConnection) {
		b.scaleBox = append(b.scaleBox, conn.ScaleBoxAndPositions)
	}
}

// ElementSetup validates the coupling parameters and that at least one
// propagator connection was resolved.
func (b *ConstantPressureBarostat) ElementSetup() error {
	if b.tau <= 0 {
		return fmt.Errorf("barostat coupling time must be positive, got %f",
			b.tau)
	}

	if len(b.scaleBox) == 0 {
		return fmt.Errorf("barostat has no propagator connection")
	}

	return nil
}

// ScheduleTask registers the box-scaling update on coupling steps.
func (b *ConstantPressureBarostat) ScheduleTask(
	step sim.Step,
	_ sim.Time,
	register sim.RegisterTaskFunc,
) error {
	if !sim.DoPerStep(step, b.interval) {
		return nil
	}

	register(b.couple)
	return nil
}

// ElementTeardown does nothing.
func (b *ConstantPressureBarostat) ElementTeardown() error {
	return nil
}

func (b *ConstantPressureBarostat) couple() error {
	current := b.energy.Pressure()

	mu := math.Cbrt(1 - float64(b.interval)*b.timeStep/b.tau*
		b.compressibility*(b.refPressure-current))

	mu = math.Max(0.98, math.Min(1.02, mu))

	for _, scale := range b.scaleBox {
		scale(mu)
	}

	return nil
}
