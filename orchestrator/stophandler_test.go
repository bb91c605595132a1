package orchestrator

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/modsimlab/stride/sim"
	"github.com/modsimlab/stride/timing"
)

var _ = Describe("StopHandler", func() {
	var (
		signals *sim.Signals
		h       *StopHandler
	)

	BeforeEach(func() {
		signals = sim.NewSignals()
		h = NewStopHandler(signals)
	})

	It("should not stop without a tripped condition", func() {
		Expect(h.StoppingAfterCurrentStep(false)).To(BeFalse())
		Expect(h.StoppingAfterCurrentStep(true)).To(BeFalse())
	})

	It("should defer a user stop to the next neighbor-search step", func() {
		h.RequestStop()

		Expect(h.StoppingAfterCurrentStep(false)).To(BeFalse())
		Expect(h.StoppingAfterCurrentStep(true)).To(BeTrue())
	})

	It("should stop immediately on an immediate condition", func() {
		h.RegisterCondition(func() sim.SignalValue {
			return sim.StopAfterThisStep
		})

		Expect(h.StoppingAfterCurrentStep(false)).To(BeTrue())
	})

	It("should let an immediate condition override a deferred one", func() {
		value := sim.StopAtNextNSStep
		h.RegisterCondition(func() sim.SignalValue {
			return value
		})

		Expect(h.StoppingAfterCurrentStep(false)).To(BeFalse())

		value = sim.StopAfterThisStep
		Expect(h.StoppingAfterCurrentStep(false)).To(BeTrue())
	})

	It("should keep a deferred stop latched in the signal slot", func() {
		h.RequestStop()
		h.StoppingAfterCurrentStep(false)

		Expect(signals.Value(sim.SignalStopCondition)).
			To(Equal(sim.StopAtNextNSStep))
	})

	It("should panic when a second handler claims the slot", func() {
		Expect(func() { NewStopHandler(signals) }).To(Panic())
	})
})

var _ = Describe("MaxHoursStopCondition", func() {
	It("should trip once the wall-clock budget is nearly spent", func() {
		wallTime := timing.NewWallTime()
		wallTime.Start()
		time.Sleep(time.Millisecond)

		condition := MaxHoursStopCondition(wallTime, 1e-9)

		Expect(condition()).To(Equal(sim.StopAtNextNSStep))
	})

	It("should stay silent within the budget", func() {
		wallTime := timing.NewWallTime()
		wallTime.Start()

		condition := MaxHoursStopCondition(wallTime, 1e6)

		Expect(condition()).To(Equal(sim.StopNone))
	})
})

var _ = Describe("OSSignalStopCondition", func() {
	It("should stay silent before any signal arrives", func() {
		condition := OSSignalStopCondition()

		Expect(condition()).To(Equal(sim.StopNone))
	})
})
