package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Signals", func() {
	var signals *Signals

	BeforeEach(func() {
		signals = NewSignals()
	})

	It("should let the claimed writer set a slot", func() {
		signals.ClaimWriter(SignalStopCondition, "stop_handler")
		signals.Set(SignalStopCondition, "stop_handler", StopAtNextNSStep)

		Expect(signals.Value(SignalStopCondition)).
			To(Equal(StopAtNextNSStep))
	})

	It("should panic when a slot is claimed twice", func() {
		signals.ClaimWriter(SignalCheckpoint, "checkpoint_helper")

		Expect(func() {
			signals.ClaimWriter(SignalCheckpoint, "someone_else")
		}).To(Panic())
	})

	It("should panic when a non-claimant writes", func() {
		signals.ClaimWriter(SignalResetCounters, "reset_handler")

		Expect(func() {
			signals.Set(SignalResetCounters, "someone_else", 1)
		}).To(Panic())
	})

	It("should clear a slot on consume", func() {
		signals.ClaimWriter(SignalResetCounters, "reset_handler")
		signals.Set(SignalResetCounters, "reset_handler", 1)

		Expect(signals.Consume(SignalResetCounters)).To(Equal(SignalValue(1)))
		Expect(signals.Value(SignalResetCounters)).To(Equal(StopNone))
	})
})
