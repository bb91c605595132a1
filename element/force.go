package element

import (
	"fmt"

	"github.com/modsimlab/stride/signaller"
	"github.com/modsimlab/stride/sim"
)

// A ForceElement schedules the per-step force computation. On neighbor-search
// steps it first rebuilds the pair list; the forces computed between two
// rebuilds are only valid for that fixed particle topology. Energy and virial
// contributions are computed on the steps the energy signaller requests and
// deposited into the energy data.
type ForceElement struct {
	state    *StateData
	energy   *EnergyData
	provider ForceProvider
	pairList PairListBuilder

	nsStep         sim.Step
	calcEnergyStep sim.Step
	calcVirialStep sim.Step
}

// NewForceElement creates a ForceElement computing forces with the given
// provider.
func NewForceElement(
	state *StateData,
	energy *EnergyData,
	provider ForceProvider,
) *ForceElement {
	return &ForceElement{
		state:          state,
		energy:         energy,
		provider:       provider,
		nsStep:         -1,
		calcEnergyStep: -1,
		calcVirialStep: -1,
	}
}

// WithPairListBuilder sets the pair-list builder invoked on neighbor-search
// steps.
func (e *ForceElement) WithPairListBuilder(b PairListBuilder) *ForceElement {
	e.pairList = b
	return e
}

// ElementSetup validates that a force provider is present.
func (e *ForceElement) ElementSetup() error {
	if e.provider == nil {
		return fmt.Errorf("force element has no force provider")
	}

	return nil
}

// ScheduleTask registers the pair-list rebuild on neighbor-search steps,
// followed by the force computation.
func (e *ForceElement) ScheduleTask(
	step sim.Step,
	_ sim.Time,
	register sim.RegisterTaskFunc,
) error {
	if step == e.nsStep && e.pairList != nil {
		register(func() error {
			return e.pairList.RebuildPairList(e.state.Positions())
		})
	}

	calcEnergy := step == e.calcEnergyStep
	calcVirial := step == e.calcVirialStep

	register(func() error {
		potential, virial, err := e.provider.ComputeForces(
			e.state.Positions(), e.state.Forces(), calcEnergy, calcVirial)
		if err != nil {
			return err
		}

		if calcEnergy {
			e.energy.SetPotential(potential)
		}

		if calcVirial {
			e.energy.SetVirial(virial)
		}

		return nil
	})

	return nil
}

// ElementTeardown does nothing.
func (e *ForceElement) ElementTeardown() error {
	return nil
}

// NeighborSearchCallback records upcoming neighbor-search steps.
func (e *ForceElement) NeighborSearchCallback() sim.Callback {
	return func(step sim.Step, _ sim.Time) {
		e.nsStep = step
	}
}

// EnergyCallback records upcoming energy- and virial-calculation steps.
func (e *ForceElement) EnergyCallback(
	event signaller.EnergyEvent,
) sim.Callback {
	switch event {
	case signaller.EnergyCalculationStep:
		return func(step sim.Step, _ sim.Time) {
			e.calcEnergyStep = step
		}
	case signaller.VirialCalculationStep:
		return func(step sim.Step, _ sim.Time) {
			e.calcVirialStep = step
		}
	}

	return nil
}
