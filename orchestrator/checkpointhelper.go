package orchestrator

import (
	"fmt"
	"log"

	"github.com/modsimlab/stride/checkpoint"
	"github.com/modsimlab/stride/sim"
	"github.com/modsimlab/stride/timing"
)

const checkpointHelperName = "checkpoint_helper"

// A CheckpointHelper writes periodic checkpoints at queue-population
// boundaries and a final checkpoint on the last step. Population boundaries
// coincide with neighbor-search steps, where no planned task depends on the
// pair-list topology, so a restart from the checkpoint replans cleanly.
//
// The helper runs first in the element call order. It learns the last step
// from the last-step signaller before the other elements act on it.
type CheckpointHelper struct {
	signals       *sim.Signals
	manager       *checkpoint.Manager
	wallTime      *timing.WallTime
	periodSeconds float64

	lastWriteSeconds float64
	lastStep         sim.Step
	finalWritten     bool
}

// NewCheckpointHelper creates a CheckpointHelper writing through the given
// manager every periodMinutes of wall-clock time. It claims the checkpoint
// signal slot.
func NewCheckpointHelper(
	signals *sim.Signals,
	manager *checkpoint.Manager,
	wallTime *timing.WallTime,
	periodMinutes float64,
) *CheckpointHelper {
	signals.ClaimWriter(sim.SignalCheckpoint, checkpointHelperName)

	return &CheckpointHelper{
		signals:       signals,
		manager:       manager,
		wallTime:      wallTime,
		periodSeconds: periodMinutes * 60,
		lastStep:      -1,
	}
}

// Run writes a checkpoint if the wall-clock period has elapsed. It is called
// once per queue-population cycle, before any task of the cycle is planned.
func (h *CheckpointHelper) Run(step sim.Step) error {
	if h.periodSeconds > 0 &&
		h.wallTime.ElapsedSeconds()-h.lastWriteSeconds >= h.periodSeconds {
		h.signals.Set(sim.SignalCheckpoint, checkpointHelperName, 1)
	}

	if h.signals.Consume(sim.SignalCheckpoint) == 0 {
		return nil
	}

	return h.write(step)
}

// ElementSetup does nothing.
func (h *CheckpointHelper) ElementSetup() error {
	return nil
}

// ScheduleTask registers the final checkpoint write on the last step.
func (h *CheckpointHelper) ScheduleTask(
	step sim.Step,
	_ sim.Time,
	register sim.RegisterTaskFunc,
) error {
	if step != h.lastStep || h.finalWritten {
		return nil
	}

	h.finalWritten = true
	register(func() error {
		return h.write(step)
	})

	return nil
}

// ElementTeardown does nothing.
func (h *CheckpointHelper) ElementTeardown() error {
	return nil
}

// LastStepCallback records the last step of the run. A stop can move the
// last step earlier after the final write was already planned and discarded
// with the truncated queue; the moved step re-arms the write.
func (h *CheckpointHelper) LastStepCallback() sim.Callback {
	return func(step sim.Step, _ sim.Time) {
		if step != h.lastStep {
			h.finalWritten = false
		}

		h.lastStep = step
	}
}

func (h *CheckpointHelper) write(step sim.Step) error {
	if err := h.manager.Save(step); err != nil {
		return fmt.Errorf("writing checkpoint at step %d: %w", step, err)
	}

	h.lastWriteSeconds = h.wallTime.ElapsedSeconds()
	log.Printf("step %d: checkpoint written", step)

	return nil
}
