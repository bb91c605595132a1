package orchestrator

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/modsimlab/stride/sim"
)

// spyElement records its lifecycle calls. Scheduling and execution are
// tracked separately so that discarded tasks are distinguishable from
// executed ones.
type spyElement struct {
	name    string
	callLog *[]string

	scheduledSteps []sim.Step
	executedSteps  []sim.Step
	setupCount     int
	teardownCount  int

	scheduleErrAtStep sim.Step
	taskErrAtStep     sim.Step
	onExecute         func(step sim.Step)
}

func newSpyElement(name string) *spyElement {
	return &spyElement{
		name:              name,
		scheduleErrAtStep: -1,
		taskErrAtStep:     -1,
	}
}

func (e *spyElement) ElementSetup() error {
	e.setupCount++
	return nil
}

func (e *spyElement) ScheduleTask(
	step sim.Step,
	_ sim.Time,
	register sim.RegisterTaskFunc,
) error {
	if step == e.scheduleErrAtStep {
		return fmt.Errorf("%s cannot schedule", e.name)
	}

	e.scheduledSteps = append(e.scheduledSteps, step)
	if e.callLog != nil {
		*e.callLog = append(*e.callLog,
			fmt.Sprintf("%s@%d", e.name, step))
	}

	register(func() error {
		e.executedSteps = append(e.executedSteps, step)

		if e.onExecute != nil {
			e.onExecute(step)
		}

		if step == e.taskErrAtStep {
			return fmt.Errorf("%s failed", e.name)
		}

		return nil
	})

	return nil
}

func (e *spyElement) ElementTeardown() error {
	e.teardownCount++
	return nil
}

// dualClientElement listens to both the neighbor-search and the last-step
// signaller, recording the order in which their events arrive.
type dualClientElement struct {
	*spyElement
	events *[]string
}

func (e *dualClientElement) NeighborSearchCallback() sim.Callback {
	return func(step sim.Step, _ sim.Time) {
		*e.events = append(*e.events, fmt.Sprintf("ns@%d", step))
	}
}

func (e *dualClientElement) LastStepCallback() sim.Callback {
	return func(step sim.Step, _ sim.Time) {
		*e.events = append(*e.events, fmt.Sprintf("last@%d", step))
	}
}

// populateRecorder records the step at which each queue population starts.
type populateRecorder struct {
	steps []sim.Step
}

func (r *populateRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos == sim.HookPosQueuePopulate {
		r.steps = append(r.steps, ctx.Item.(sim.Step))
	}
}

func stepsRange(from, to sim.Step) []sim.Step {
	steps := make([]sim.Step, 0, to-from+1)
	for s := from; s <= to; s++ {
		steps = append(steps, s)
	}
	return steps
}

var _ = Describe("Algorithm", func() {
	var params RunParams

	BeforeEach(func() {
		params = RunParams{
			NumSteps:               10,
			TimeStep:               0.002,
			NeighborSearchInterval: 3,
		}
	})

	It("should run to completion with one teardown", func() {
		spy := newSpyElement("spy")
		a := NewBuilder(params).AddElement(spy).Build()

		Expect(NewRunner(a).Run()).To(Succeed())

		Expect(spy.setupCount).To(Equal(1))
		Expect(spy.scheduledSteps).To(Equal(stepsRange(0, 10)))
		Expect(spy.executedSteps).To(Equal(stepsRange(0, 10)))
		Expect(spy.teardownCount).To(Equal(1))
		Expect(a.RunFinished()).To(BeTrue())
	})

	It("should run exactly one step for an empty run", func() {
		params.NumSteps = 0

		spy := newSpyElement("spy")
		a := NewBuilder(params).AddElement(spy).Build()

		Expect(NewRunner(a).Run()).To(Succeed())

		Expect(spy.executedSteps).To(Equal([]sim.Step{0}))
		Expect(spy.teardownCount).To(Equal(1))
	})

	It("should bound every window by the neighbor-search step", func() {
		spy := newSpyElement("spy")
		recorder := &populateRecorder{}

		a := NewBuilder(params).AddElement(spy).Build()
		a.AcceptHook(recorder)

		Expect(NewRunner(a).Run()).To(Succeed())

		Expect(recorder.steps).To(Equal([]sim.Step{0, 3, 6, 9}))
	})

	It("should honor a non-zero initial step", func() {
		params.InitStep = 5
		params.NumSteps = 4

		spy := newSpyElement("spy")
		a := NewBuilder(params).AddElement(spy).Build()

		Expect(NewRunner(a).Run()).To(Succeed())

		Expect(spy.executedSteps).To(Equal(stepsRange(5, 9)))
	})

	It("should produce identical call orders across runs", func() {
		run := func() []string {
			var callLog []string

			first := newSpyElement("first")
			second := newSpyElement("second")
			third := newSpyElement("third")
			first.callLog = &callLog
			second.callLog = &callLog
			third.callLog = &callLog

			a := NewBuilder(params).
				AddElement(first).
				AddElement(second).
				AddElement(third).
				Build()

			Expect(NewRunner(a).Run()).To(Succeed())

			return callLog
		}

		Expect(run()).To(Equal(run()))
	})

	It("should truncate the plan when a stop arrives mid-window", func() {
		params.NumSteps = 100
		params.NeighborSearchInterval = 10

		stopRequested := false
		spy := newSpyElement("spy")
		spy.onExecute = func(step sim.Step) {
			if step == 3 {
				stopRequested = true
			}
		}

		a := NewBuilder(params).
			AddElement(spy).
			AddStopCondition(func() sim.SignalValue {
				if stopRequested {
					return sim.StopAfterThisStep
				}
				return sim.StopNone
			}).
			Build()

		Expect(NewRunner(a).Run()).To(Succeed())

		// The stop is observed before step 4 runs; step 4 becomes the
		// last step and no later task ever executes.
		Expect(spy.executedSteps).To(Equal(stepsRange(0, 4)))
		Expect(spy.teardownCount).To(Equal(1))

		// The window was planned through step 9 before the stop.
		Expect(spy.scheduledSteps).
			To(Equal(append(stepsRange(0, 9), 4)))
	})

	It("should replan teardown when a stop truncates the final window",
		func() {
			// One window covers the whole run, so the discarded plan
			// already carried the teardown task.
			params.NumSteps = 8
			params.NeighborSearchInterval = 20

			stopRequested := false
			spy := newSpyElement("spy")
			spy.onExecute = func(step sim.Step) {
				if step == 5 {
					stopRequested = true
				}
			}

			a := NewBuilder(params).
				AddElement(spy).
				AddStopCondition(func() sim.SignalValue {
					if stopRequested {
						return sim.StopAfterThisStep
					}
					return sim.StopNone
				}).
				Build()

			Expect(NewRunner(a).Run()).To(Succeed())

			// The stop is observed before step 6 runs; step 6 becomes
			// the last step, executes once, and teardown still runs.
			Expect(spy.executedSteps).To(Equal(stepsRange(0, 6)))
			Expect(spy.teardownCount).To(Equal(1))
			Expect(a.RunFinished()).To(BeTrue())
		})

	It("should end at the next neighbor-search step on a deferred stop",
		func() {
			params.NumSteps = 100
			params.NeighborSearchInterval = 10

			stopRequested := false
			spy := newSpyElement("spy")
			spy.onExecute = func(step sim.Step) {
				if step == 3 {
					stopRequested = true
				}
			}

			a := NewBuilder(params).
				AddElement(spy).
				AddStopCondition(func() sim.SignalValue {
					if stopRequested {
						return sim.StopAtNextNSStep
					}
					return sim.StopNone
				}).
				Build()

			Expect(NewRunner(a).Run()).To(Succeed())

			// The planned window through step 9 runs out; the next
			// window starts at the neighbor-search step 10, which
			// becomes the last step.
			Expect(spy.executedSteps).To(Equal(stepsRange(0, 10)))
			Expect(spy.teardownCount).To(Equal(1))
		})

	It("should notify neighbor-search clients before last-step clients",
		func() {
			params.NumSteps = 0

			events := []string{}
			dual := &dualClientElement{spyElement: newSpyElement("dual")}
			dual.events = &events

			a := NewBuilder(params).AddElement(dual).Build()

			Expect(NewRunner(a).Run()).To(Succeed())

			Expect(events).To(Equal([]string{"ns@0", "last@0"}))
		})

	It("should surface a task error with its step and still tear down",
		func() {
			spy := newSpyElement("spy")
			spy.taskErrAtStep = 2

			a := NewBuilder(params).AddElement(spy).Build()

			err := NewRunner(a).Run()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("step 2"))
			Expect(spy.teardownCount).To(Equal(1))
		})

	It("should surface a scheduling error and still tear down", func() {
		spy := newSpyElement("spy")
		spy.scheduleErrAtStep = 1

		a := NewBuilder(params).AddElement(spy).Build()

		err := NewRunner(a).Run()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("step 1"))
		Expect(spy.teardownCount).To(Equal(1))
	})

	It("should drive a mocked element through its full lifecycle", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		params.NumSteps = 2
		params.NeighborSearchInterval = 0

		elem := NewMockElement(ctrl)
		elem.EXPECT().ElementSetup().Return(nil)
		elem.EXPECT().
			ScheduleTask(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			Times(3)
		elem.EXPECT().ElementTeardown().Return(nil)

		a := NewBuilder(params).AddElement(elem).Build()

		Expect(NewRunner(a).Run()).To(Succeed())
	})
})
