package orchestrator

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/modsimlab/stride/sim"
	"github.com/modsimlab/stride/timing"
)

var _ = Describe("ResetHandler", func() {
	var (
		signals   *sim.Signals
		wallTime  *timing.WallTime
		stepTimer *timing.StepTimer
		h         *ResetHandler
	)

	BeforeEach(func() {
		signals = sim.NewSignals()
		wallTime = timing.NewWallTime()
		stepTimer = timing.NewStepTimer(nil)
		h = NewResetHandler(signals, wallTime, stepTimer, 1e-9)
	})

	It("should reset the counters once half the budget has elapsed", func() {
		wallTime.Start()
		time.Sleep(time.Millisecond)

		h.SetSignal()
		h.ResetCounters(5)

		Expect(wallTime.ResetStep()).To(Equal(sim.Step(5)))
	})

	It("should reset at most once", func() {
		wallTime.Start()
		time.Sleep(time.Millisecond)

		h.SetSignal()
		h.ResetCounters(5)

		h.SetSignal()
		h.ResetCounters(9)

		Expect(wallTime.ResetStep()).To(Equal(sim.Step(5)))
	})

	It("should not reset before half the budget", func() {
		slow := NewResetHandler(sim.NewSignals(), wallTime, stepTimer, 1e6)
		wallTime.Start()

		slow.SetSignal()
		slow.ResetCounters(5)

		Expect(wallTime.ResetStep()).To(Equal(sim.Step(0)))
	})

	It("should not reset without a raised signal", func() {
		wallTime.Start()

		h.ResetCounters(5)

		Expect(wallTime.ResetStep()).To(Equal(sim.Step(0)))
	})
})
