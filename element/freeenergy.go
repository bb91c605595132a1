package element

import (
	"fmt"

	"github.com/modsimlab/stride/checkpoint"
	"github.com/modsimlab/stride/sim"
)

// FreeEnergyData owns the free-energy coupling parameter lambda. Lambda
// moves from its initial value by a constant increment per step, staying
// within [0, 1].
type FreeEnergyData struct {
	sim.NamedBase

	lambda      float64
	deltaLambda float64
}

// NewFreeEnergyData creates a FreeEnergyData starting at the given lambda.
func NewFreeEnergyData(initLambda, deltaLambda float64) *FreeEnergyData {
	return &FreeEnergyData{
		NamedBase:   sim.MakeNamedBase("free_energy_data"),
		lambda:      initLambda,
		deltaLambda: deltaLambda,
	}
}

// Lambda returns the current coupling parameter.
func (d *FreeEnergyData) Lambda() float64 {
	return d.lambda
}

// Element returns the element that advances lambda once per step. It must
// run before the physics elements so that they see the step's lambda value.
func (d *FreeEnergyData) Element() *FreeEnergyElement {
	return &FreeEnergyElement{data: d}
}

// State returns the checkpointable view of the free-energy data.
func (d *FreeEnergyData) State() checkpoint.State {
	return d
}

// SetState restores the free-energy data from a checkpointed state. The
// state is deserialized in place, so there is nothing left to do.
func (d *FreeEnergyData) SetState(checkpoint.State) {}

// Serialize captures lambda.
func (d *FreeEnergyData) Serialize() (map[string]interface{}, error) {
	return map[string]interface{}{"lambda": d.lambda}, nil
}

// Deserialize restores lambda.
func (d *FreeEnergyData) Deserialize(data map[string]interface{}) error {
	lambda, ok := data["lambda"].(float64)
	if !ok {
		return fmt.Errorf("lambda missing from checkpointed state")
	}

	d.lambda = lambda
	return nil
}

// A FreeEnergyElement advances lambda once per step.
type FreeEnergyElement struct {
	data *FreeEnergyData
}

// ElementSetup does nothing.
func (e *FreeEnergyElement) ElementSetup() error {
	return nil
}

// ScheduleTask registers the lambda update.
func (e *FreeEnergyElement) ScheduleTask(
	_ sim.Step,
	_ sim.Time,
	register sim.RegisterTaskFunc,
) error {
	if e.data.deltaLambda == 0 {
		return nil
	}

	register(func() error {
		lambda := e.data.lambda + e.data.deltaLambda
		if lambda < 0 {
			lambda = 0
		}
		if lambda > 1 {
			lambda = 1
		}

		e.data.lambda = lambda
		return nil
	})

	return nil
}

// ElementTeardown does nothing.
func (e *FreeEnergyElement) ElementTeardown() error {
	return nil
}
