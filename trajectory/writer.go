// Package trajectory persists simulation output through the data recorder.
// The writer is an element; it runs last in the element call order so that
// it sees the values all upstream elements produced for the step.
package trajectory

import (
	"fmt"

	"github.com/modsimlab/stride/datarecording"
	"github.com/modsimlab/stride/element"
	"github.com/modsimlab/stride/signaller"
	"github.com/modsimlab/stride/sim"
)

// FrameEntry is one particle of one trajectory frame.
type FrameEntry struct {
	Step     int64
	Time     float64
	Particle int64
	X        float64
	Y        float64
	Z        float64
	VX       float64
	VY       float64
	VZ       float64
}

// EnergyEntry is one energy row.
type EnergyEntry struct {
	Step        int64
	Time        float64
	Kinetic     float64
	Potential   float64
	Total       float64
	Temperature float64
	Pressure    float64
}

const (
	frameTable  = "trajectory"
	energyTable = "energy"
)

// A Writer appends trajectory frames and energy rows on the steps the
// trajectory signaller announces.
type Writer struct {
	recorder datarecording.DataRecorder
	state    *element.StateData
	energy   *element.EnergyData

	stateStep  sim.Step
	energyStep sim.Step
}

// NewWriter creates a Writer persisting through the given recorder.
func NewWriter(
	recorder datarecording.DataRecorder,
	state *element.StateData,
	energy *element.EnergyData,
) *Writer {
	recorder.CreateTable(frameTable, FrameEntry{})
	recorder.CreateTable(energyTable, EnergyEntry{})

	return &Writer{
		recorder:   recorder,
		state:      state,
		energy:     energy,
		stateStep:  -1,
		energyStep: -1,
	}
}

// ElementSetup validates the writer's inputs.
func (w *Writer) ElementSetup() error {
	if w.state == nil {
		return fmt.Errorf("trajectory writer has no state data")
	}

	return nil
}

// ScheduleTask registers the writing tasks due at the step.
func (w *Writer) ScheduleTask(
	step sim.Step,
	time sim.Time,
	register sim.RegisterTaskFunc,
) error {
	if step == w.stateStep {
		register(func() error {
			w.writeFrame(step, time)
			return nil
		})
	}

	if step == w.energyStep && w.energy != nil {
		register(func() error {
			w.writeEnergy(step, time)
			return nil
		})
	}

	return nil
}

// ElementTeardown flushes the recorder.
func (w *Writer) ElementTeardown() error {
	w.recorder.Flush()
	return nil
}

// TrajectoryCallback records the steps on which output is due.
func (w *Writer) TrajectoryCallback(
	event signaller.TrajectoryEvent,
) sim.Callback {
	switch event {
	case signaller.StateWritingStep:
		return func(step sim.Step, _ sim.Time) {
			w.stateStep = step
		}
	case signaller.EnergyWritingStep:
		return func(step sim.Step, _ sim.Time) {
			w.energyStep = step
		}
	}

	return nil
}

func (w *Writer) writeFrame(step sim.Step, time sim.Time) {
	pos := w.state.Positions()
	vel := w.state.Velocities()

	for i := range pos {
		w.recorder.InsertData(frameTable, FrameEntry{
			Step:     int64(step),
			Time:     float64(time),
			Particle: int64(i),
			X:        pos[i][0],
			Y:        pos[i][1],
			Z:        pos[i][2],
			VX:       vel[i][0],
			VY:       vel[i][1],
			VZ:       vel[i][2],
		})
	}
}

func (w *Writer) writeEnergy(step sim.Step, time sim.Time) {
	w.recorder.InsertData(energyTable, EnergyEntry{
		Step:        int64(step),
		Time:        float64(time),
		Kinetic:     w.energy.Kinetic(),
		Potential:   w.energy.Potential(),
		Total:       w.energy.Total(),
		Temperature: w.energy.Temperature(),
		Pressure:    w.energy.Pressure(),
	})
}
