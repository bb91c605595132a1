package timing

import (
	"time"

	"github.com/modsimlab/stride/sim"
)

// An Inserter receives step-timing rows. It is satisfied by the data
// recorder.
type Inserter interface {
	CreateTable(tableName string, sampleEntry any)
	InsertData(tableName string, entry any)
}

// StepTimingEntry is one recorded step duration.
type StepTimingEntry struct {
	Step    int64
	Seconds float64
}

const stepTimingTable = "step_timing"

// A StepTimer is a hook that measures the wall-clock duration of every step
// between the pre-step and post-step hook positions. Durations accumulate
// into a windowed average consumed by the load balancer and are optionally
// recorded.
type StepTimer struct {
	inserter Inserter

	start time.Time
	total time.Duration
	count int64
}

// NewStepTimer creates a StepTimer. The inserter may be nil, in which case
// durations are only aggregated.
func NewStepTimer(inserter Inserter) *StepTimer {
	t := &StepTimer{inserter: inserter}

	if inserter != nil {
		inserter.CreateTable(stepTimingTable, StepTimingEntry{})
	}

	return t
}

// Func implements sim.Hook.
func (t *StepTimer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosPreStep:
		t.start = time.Now()
	case sim.HookPosPostStep:
		elapsed := time.Since(t.start)
		t.total += elapsed
		t.count++

		if t.inserter != nil {
			step, _ := ctx.Item.(sim.Step)
			t.inserter.InsertData(stepTimingTable, StepTimingEntry{
				Step:    int64(step),
				Seconds: elapsed.Seconds(),
			})
		}
	}
}

// AverageSeconds returns the average step duration since the last reset.
func (t *StepTimer) AverageSeconds() float64 {
	if t.count == 0 {
		return 0
	}

	return t.total.Seconds() / float64(t.count)
}

// Reset clears the aggregated durations.
func (t *StepTimer) Reset() {
	t.total = 0
	t.count = 0
}
