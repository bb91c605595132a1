package orchestrator

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/modsimlab/stride/checkpoint"
	"github.com/modsimlab/stride/sim"
	"github.com/modsimlab/stride/timing"
)

// counterState is a minimal checkpointable state used to observe snapshot
// round trips.
type counterState struct {
	sim.NamedBase
	value float64
}

func (s *counterState) Serialize() (map[string]interface{}, error) {
	return map[string]interface{}{"value": s.value}, nil
}

func (s *counterState) Deserialize(data map[string]interface{}) error {
	s.value, _ = data["value"].(float64)
	return nil
}

type counterHolder struct {
	sim.NamedBase
	state *counterState
}

func newCounterHolder() *counterHolder {
	return &counterHolder{
		NamedBase: sim.MakeNamedBase("counter"),
		state: &counterState{
			NamedBase: sim.MakeNamedBase("counter"),
		},
	}
}

func (h *counterHolder) State() checkpoint.State {
	return h.state
}

func (h *counterHolder) SetState(s checkpoint.State) {
	h.state = s.(*counterState)
}

var _ = Describe("CheckpointHelper", func() {
	var (
		path     string
		manager  *checkpoint.Manager
		holder   *counterHolder
		wallTime *timing.WallTime
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "state.cpt")
		manager = checkpoint.NewManager(path)
		holder = newCounterHolder()
		manager.RegisterHolder(holder)

		wallTime = timing.NewWallTime()
		wallTime.Start()
	})

	It("should write once the wall-clock period has elapsed", func() {
		h := NewCheckpointHelper(sim.NewSignals(), manager, wallTime, 1e-9)
		time.Sleep(time.Millisecond)

		holder.state.value = 42
		Expect(h.Run(3)).To(Succeed())

		holder.state.value = 0
		step, err := manager.Load()
		Expect(err).ToNot(HaveOccurred())
		Expect(step).To(Equal(sim.Step(3)))
		Expect(holder.state.value).To(Equal(42.0))
	})

	It("should not write periodically when disabled", func() {
		h := NewCheckpointHelper(sim.NewSignals(), manager, wallTime, 0)
		time.Sleep(time.Millisecond)

		Expect(h.Run(3)).To(Succeed())

		_, err := os.Stat(path)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("should write the final checkpoint on the last step", func() {
		h := NewCheckpointHelper(sim.NewSignals(), manager, wallTime, 0)
		h.LastStepCallback()(7, 0.014)

		var tasks []sim.Task
		register := func(t sim.Task) { tasks = append(tasks, t) }

		Expect(h.ScheduleTask(6, 0.012, register)).To(Succeed())
		Expect(tasks).To(BeEmpty())

		Expect(h.ScheduleTask(7, 0.014, register)).To(Succeed())
		Expect(tasks).To(HaveLen(1))
		Expect(tasks[0]()).To(Succeed())

		step, err := manager.Load()
		Expect(err).ToNot(HaveOccurred())
		Expect(step).To(Equal(sim.Step(7)))
	})

	It("should re-arm the final write when the last step moves earlier",
		func() {
			h := NewCheckpointHelper(sim.NewSignals(), manager, wallTime, 0)

			var tasks []sim.Task
			register := func(t sim.Task) { tasks = append(tasks, t) }

			// The plan for step 10 is discarded with a truncated queue;
			// a stop moves the last step to 6.
			h.LastStepCallback()(10, 0.02)
			Expect(h.ScheduleTask(10, 0.02, register)).To(Succeed())
			Expect(tasks).To(HaveLen(1))
			tasks = nil

			h.LastStepCallback()(6, 0.012)
			Expect(h.ScheduleTask(6, 0.012, register)).To(Succeed())
			Expect(tasks).To(HaveLen(1))
			Expect(tasks[0]()).To(Succeed())

			step, err := manager.Load()
			Expect(err).ToNot(HaveOccurred())
			Expect(step).To(Equal(sim.Step(6)))
		})

	It("should write the final checkpoint after a stop in the final window",
		func() {
			stopRequested := false
			spy := newSpyElement("spy")
			spy.onExecute = func(step sim.Step) {
				if step == 5 {
					stopRequested = true
				}
			}

			a := NewBuilder(RunParams{
				NumSteps:               8,
				TimeStep:               0.002,
				NeighborSearchInterval: 20,
			}).
				AddElement(spy).
				WithCheckpointManager(manager).
				AddStopCondition(func() sim.SignalValue {
					if stopRequested {
						return sim.StopAfterThisStep
					}
					return sim.StopNone
				}).
				Build()

			Expect(NewRunner(a).Run()).To(Succeed())

			step, err := manager.Load()
			Expect(err).ToNot(HaveOccurred())
			Expect(step).To(Equal(sim.Step(6)))
		})

	It("should write the final checkpoint at most once", func() {
		h := NewCheckpointHelper(sim.NewSignals(), manager, wallTime, 0)
		h.LastStepCallback()(7, 0.014)

		var tasks []sim.Task
		register := func(t sim.Task) { tasks = append(tasks, t) }

		Expect(h.ScheduleTask(7, 0.014, register)).To(Succeed())
		Expect(h.ScheduleTask(7, 0.014, register)).To(Succeed())

		Expect(tasks).To(HaveLen(1))
	})
})
