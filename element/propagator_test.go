package element

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/modsimlab/stride/signaller"
	"github.com/modsimlab/stride/sim"
)

func runScheduled(e sim.Element, step sim.Step) error {
	var tasks []sim.Task

	err := e.ScheduleTask(step, 0, func(t sim.Task) {
		tasks = append(tasks, t)
	})
	if err != nil {
		return err
	}

	for _, t := range tasks {
		if err := t(); err != nil {
			return err
		}
	}

	return nil
}

var _ = Describe("Propagator", func() {
	var (
		state *StateData
		p     *Propagator
	)

	BeforeEach(func() {
		state = NewStateData(
			[]Vec3{{0, 0, 0}},
			[]Vec3{{1, 0, 0}},
			[]float64{2},
			cubicBox(10),
		)
		state.Forces()[0] = Vec3{2, 0, 0}

		p = NewPropagator("leapfrog", state, 0.5)
	})

	It("should reject a non-positive time step", func() {
		bad := NewPropagator("leapfrog", state, 0)
		Expect(bad.ElementSetup()).To(HaveOccurred())
	})

	It("should advance velocities and positions by one leap-frog step",
		func() {
			Expect(runScheduled(p, 0)).To(Succeed())

			// v = 1 + 2/2*0.5 = 1.5; x = 0 + 1.5*0.5 = 0.75
			Expect(state.Velocities()[0][0]).
				To(BeNumerically("~", 1.5, 1e-12))
			Expect(state.Positions()[0][0]).
				To(BeNumerically("~", 0.75, 1e-12))
		})

	It("should consume the thermostat scaling factor once", func() {
		conn := p.ThermostatConnection()
		conn.SetVelocityScaling(2)

		Expect(runScheduled(p, 0)).To(Succeed())
		// v = 2*(1 + 0.5) = 3
		Expect(state.Velocities()[0][0]).To(BeNumerically("~", 3.0, 1e-12))

		state.Forces()[0] = Vec3{}
		Expect(runScheduled(p, 1)).To(Succeed())
		// Factor back at 1: v unchanged without force.
		Expect(state.Velocities()[0][0]).To(BeNumerically("~", 3.0, 1e-12))
	})

	It("should scale the box through the barostat connection", func() {
		conn := p.BarostatConnection()
		conn.ScaleBoxAndPositions(0.5)

		Expect(state.Volume()).To(BeNumerically("~", 125.0, 1e-9))
	})
})

var _ = Describe("VelocityScalingThermostat", func() {
	var (
		state  *StateData
		energy *EnergyData
	)

	BeforeEach(func() {
		state = NewStateData(
			[]Vec3{{0, 0, 0}},
			[]Vec3{{1, 0, 0}},
			[]float64{1},
			cubicBox(10),
		)
		energy = NewEnergyData(state)
	})

	It("should fail setup without a propagator connection", func() {
		t := NewVelocityScalingThermostat(energy, 1.0, 0.5, 10, 0.002)
		Expect(t.ElementSetup()).To(HaveOccurred())
	})

	It("should fail setup with a non-positive coupling time", func() {
		t := NewVelocityScalingThermostat(energy, 1.0, 0, 10, 0.002)

		p := NewPropagator("leapfrog", state, 0.002)
		t.ConnectionRegistration()(p.ThermostatConnection())

		Expect(t.ElementSetup()).To(HaveOccurred())
	})

	It("should clamp the scaling factor", func() {
		var factor float64
		t := NewVelocityScalingThermostat(energy, 1000.0, 0.001, 10, 0.002)
		t.ConnectionRegistration()(ThermostatConnection{
			PropagatorTag:      "leapfrog",
			SetVelocityScaling: func(f float64) { factor = f },
		})

		// Kinetic energy must be non-zero for a defined temperature.
		prepareEnergy(energy, state)

		Expect(runScheduled(t, 10)).To(Succeed())
		Expect(factor).To(BeNumerically("<=", 1.25))
		Expect(factor).To(BeNumerically(">", 0))
	})

	It("should only couple on its interval", func() {
		called := false
		t := NewVelocityScalingThermostat(energy, 1.0, 0.5, 10, 0.002)
		t.ConnectionRegistration()(ThermostatConnection{
			SetVelocityScaling: func(float64) { called = true },
		})

		prepareEnergy(energy, state)

		Expect(runScheduled(t, 7)).To(Succeed())
		Expect(called).To(BeFalse())
	})
})

var _ = Describe("ConstantPressureBarostat", func() {
	It("should clamp the box scaling factor", func() {
		state := NewStateData(
			[]Vec3{{0, 0, 0}},
			[]Vec3{{10, 0, 0}},
			[]float64{1},
			cubicBox(1),
		)
		energy := NewEnergyData(state)
		prepareEnergy(energy, state)

		var mu float64
		b := NewConstantPressureBarostat(energy, 1.0, 0.001, 10.0, 10, 0.002)
		b.ConnectionRegistration()(BarostatConnection{
			PropagatorTag:        "leapfrog",
			ScaleBoxAndPositions: func(f float64) { mu = f },
		})

		Expect(runScheduled(b, 10)).To(Succeed())
		Expect(mu).To(BeNumerically(">=", 0.98))
		Expect(mu).To(BeNumerically("<=", 1.02))
	})
})

// prepareEnergy runs the energy element's setup and accounting so that the
// energy data holds a defined temperature and pressure.
func prepareEnergy(energy *EnergyData, state *StateData) {
	e := energy.Element()
	ExpectWithOffset(1, e.ElementSetup()).To(Succeed())
	e.EnergyCallback(signaller.EnergyCalculationStep)(0, 0)
	ExpectWithOffset(1, runScheduled(e, 0)).To(Succeed())
}
