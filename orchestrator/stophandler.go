package orchestrator

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/modsimlab/stride/sim"
	"github.com/modsimlab/stride/timing"
)

const stopHandlerName = "stop_handler"

// A StopCondition reports whether the run should end. Conditions are polled
// once per step; they must be cheap and must not block. A condition keeps
// reporting its stop value once it has tripped.
type StopCondition func() sim.SignalValue

// A StopHandler aggregates all stop conditions into the stop-condition
// signal slot. It is the slot's only writer; the last-step signaller and
// the pre-step check read the aggregate through
// StoppingAfterCurrentStep.
type StopHandler struct {
	signals    *sim.Signals
	conditions []StopCondition

	userStop atomic.Int32
}

// NewStopHandler creates a StopHandler and claims the stop-condition slot.
func NewStopHandler(signals *sim.Signals) *StopHandler {
	signals.ClaimWriter(sim.SignalStopCondition, stopHandlerName)

	h := &StopHandler{signals: signals}
	h.RegisterCondition(func() sim.SignalValue {
		return sim.SignalValue(h.userStop.Load())
	})

	return h
}

// RegisterCondition adds a stop condition. Conditions may only be added
// before the run starts stepping.
func (h *StopHandler) RegisterCondition(c StopCondition) {
	h.conditions = append(h.conditions, c)
}

// RequestStop asks the run to end at the next neighbor-search step. It is
// safe to call from another goroutine, e.g. the web monitor.
func (h *StopHandler) RequestStop() {
	h.userStop.Store(int32(sim.StopAtNextNSStep))
}

// StoppingAfterCurrentStep polls all stop conditions, records the strongest
// request in the stop-condition slot, and reports whether the run must end
// after the current step. A deferred stop only ends the run at a
// neighbor-search step; an immediate stop ends it at any step.
func (h *StopHandler) StoppingAfterCurrentStep(isNSStep bool) bool {
	for _, c := range h.conditions {
		v := c()
		if v == sim.StopNone {
			continue
		}

		if v == sim.StopAfterThisStep ||
			h.signals.Value(sim.SignalStopCondition) == sim.StopNone {
			h.signals.Set(sim.SignalStopCondition, stopHandlerName, v)
		}
	}

	switch h.signals.Value(sim.SignalStopCondition) {
	case sim.StopAfterThisStep:
		return true
	case sim.StopAtNextNSStep:
		return isNSStep
	}

	return false
}

// OSSignalStopCondition returns a stop condition driven by SIGINT and
// SIGTERM. The first signal requests a stop at the next neighbor-search
// step; the second requests an immediate stop.
func OSSignalStopCondition() StopCondition {
	ch := make(chan os.Signal, 8)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	received := 0

	return func() sim.SignalValue {
		for {
			select {
			case s := <-ch:
				received++
				switch received {
				case 1:
					fmt.Fprintf(os.Stderr,
						"\nreceived %v, stopping at the next "+
							"neighbor-search step\n", s)
				case 2:
					fmt.Fprintf(os.Stderr,
						"\nreceived second %v, stopping after the "+
							"current step\n", s)
				}
			default:
				switch {
				case received == 0:
					return sim.StopNone
				case received == 1:
					return sim.StopAtNextNSStep
				default:
					return sim.StopAfterThisStep
				}
			}
		}
	}
}

// MaxHoursStopCondition returns a stop condition that trips shortly before
// the wall-clock limit, leaving room for the final output and checkpoint.
func MaxHoursStopCondition(
	wallTime *timing.WallTime,
	maxHours float64,
) StopCondition {
	announced := false

	return func() sim.SignalValue {
		if wallTime.ElapsedSeconds() < 0.99*maxHours*3600 {
			return sim.StopNone
		}

		if !announced {
			announced = true
			fmt.Fprintf(os.Stderr,
				"run time exceeded %.3g hours, "+
					"stopping at the next neighbor-search step\n",
				0.99*maxHours)
		}

		return sim.StopAtNextNSStep
	}
}
