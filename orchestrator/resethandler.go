package orchestrator

import (
	"log"

	"github.com/modsimlab/stride/sim"
	"github.com/modsimlab/stride/timing"
)

const resetHandlerName = "reset_handler"

// A ResetHandler resets the performance counters halfway through a
// wall-clock-limited run, so that the reported performance excludes the
// warm-up phase. It is the only writer of the reset-counters slot; the
// post-step check consumes the slot.
type ResetHandler struct {
	signals   *sim.Signals
	wallTime  *timing.WallTime
	stepTimer *timing.StepTimer
	maxHours  float64

	done bool
}

// NewResetHandler creates a ResetHandler and claims the reset-counters slot.
// The counters reset once, halfway through the maxHours budget.
func NewResetHandler(
	signals *sim.Signals,
	wallTime *timing.WallTime,
	stepTimer *timing.StepTimer,
	maxHours float64,
) *ResetHandler {
	signals.ClaimWriter(sim.SignalResetCounters, resetHandlerName)

	return &ResetHandler{
		signals:   signals,
		wallTime:  wallTime,
		stepTimer: stepTimer,
		maxHours:  maxHours,
	}
}

// SetSignal raises the reset-counters signal when half of the wall-clock
// budget has elapsed. It is called at the pre-step check.
func (h *ResetHandler) SetSignal() {
	if h.done || h.maxHours <= 0 {
		return
	}

	if h.wallTime.ElapsedSeconds() > 0.495*h.maxHours*3600 {
		h.signals.Set(sim.SignalResetCounters, resetHandlerName, 1)
	}
}

// ResetCounters consumes the reset-counters signal and performs the reset.
// It is called at the post-step check, so the reset takes effect between two
// steps.
func (h *ResetHandler) ResetCounters(step sim.Step) {
	if h.signals.Consume(sim.SignalResetCounters) == 0 {
		return
	}

	h.wallTime.Reset(step)
	h.stepTimer.Reset()
	h.done = true

	log.Printf("step %d: performance counters reset", step)
}
