// Package timing provides wall-clock accounting for the run and a per-step
// stopwatch hook. The accounting supports mid-run counter resets, used for
// benchmarking runs that should not measure their warm-up phase.
package timing

import (
	"time"

	"github.com/modsimlab/stride/sim"
)

// WallTime accounts the wall-clock time of a run.
type WallTime struct {
	startTime  time.Time
	started    bool
	resetStep  sim.Step
	nstepsDone int64
}

// NewWallTime creates a WallTime.
func NewWallTime() *WallTime {
	return &WallTime{}
}

// Start begins the accounting.
func (w *WallTime) Start() {
	w.startTime = time.Now()
	w.started = true
}

// Started reports whether the accounting has begun.
func (w *WallTime) Started() bool {
	return w.started
}

// ElapsedSeconds returns the wall-clock seconds since Start or the last
// Reset.
func (w *WallTime) ElapsedSeconds() float64 {
	if !w.started {
		return 0
	}

	return time.Since(w.startTime).Seconds()
}

// Reset restarts the accounting at the given step. Performance figures
// derived afterwards only cover the steps since the reset.
func (w *WallTime) Reset(step sim.Step) {
	w.startTime = time.Now()
	w.resetStep = step
}

// ResetStep returns the step of the last reset, or the zero step.
func (w *WallTime) ResetStep() sim.Step {
	return w.resetStep
}

// SetNStepsDone records how many steps the run completed.
func (w *WallTime) SetNStepsDone(n int64) {
	w.nstepsDone = n
}

// NStepsDone returns how many steps the run completed.
func (w *WallTime) NStepsDone() int64 {
	return w.nstepsDone
}

// RemainingSeconds estimates the wall-clock time left until lastStep,
// assuming the pace since the last reset continues.
func (w *WallTime) RemainingSeconds(
	step, lastStep sim.Step,
) float64 {
	done := step - w.resetStep
	if done <= 0 || !w.started {
		return 0
	}

	perStep := w.ElapsedSeconds() / float64(done)
	return perStep * float64(lastStep-step)
}
