package orchestrator

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/modsimlab/stride/element"
	"github.com/modsimlab/stride/sim"
	"github.com/modsimlab/stride/timing"
)

// signalHelper listens to the signallers on behalf of the algorithm. The
// last step and the next neighbor-search step are only known lazily, once
// the corresponding signaller fires; until then the helper holds sentinel
// values that keep the population loop running.
type signalHelper struct {
	lastStep    sim.Step
	nextNSStep  sim.Step
	loggingStep sim.Step
}

func newSignalHelper() *signalHelper {
	return &signalHelper{
		lastStep:    math.MaxInt64,
		nextNSStep:  -1,
		loggingStep: -1,
	}
}

// NeighborSearchCallback records the current neighbor-search step.
func (h *signalHelper) NeighborSearchCallback() sim.Callback {
	return func(step sim.Step, _ sim.Time) {
		h.nextNSStep = step
	}
}

// LastStepCallback records the last step of the run.
func (h *signalHelper) LastStepCallback() sim.Callback {
	return func(step sim.Step, _ sim.Time) {
		h.lastStep = step
	}
}

// LoggingCallback records the current logging step.
func (h *signalHelper) LoggingCallback() sim.Callback {
	return func(step sim.Step, _ sim.Time) {
		h.loggingStep = step
	}
}

// An Algorithm owns a fully wired set of signallers and elements and drives
// their per-step loop. It plans tasks one finite window at a time, from the
// current step up to the next neighbor-search step or the last step, and
// hands them to the outer runner through GetNextTask.
//
// Algorithms are created by a Builder. An element belongs to exactly one
// algorithm and does not outlive it.
type Algorithm struct {
	sim.HookableBase

	signallers []sim.Signaller
	elements   []sim.Element
	helper     *signalHelper

	stop  *StopHandler
	reset *ResetHandler

	checkpointHelper  *CheckpointHelper
	partitionHelper   *PartitionHelper
	loadBalanceHelper *LoadBalanceHelper

	wallTime *timing.WallTime
	energy   *element.EnergyData

	preSetups []func() error

	initStep        sim.Step
	initTime        sim.Time
	timeStep        sim.Time
	plannedLastStep sim.Step
	verbose         bool

	step        sim.Step
	queue       []sim.Task
	nextTask    int
	runFinished bool

	setupDone bool
	tornDown  bool
}

// Setup brackets the start of the run. It validates the shared data, sets up
// all signallers and elements, starts the wall-clock accounting, and prints
// the run banner. Errors surface before any step executes.
func (a *Algorithm) Setup() error {
	if a.setupDone {
		panic("algorithm set up twice")
	}
	a.setupDone = true

	for _, setup := range a.preSetups {
		if err := setup(); err != nil {
			return fmt.Errorf("setting up run data: %w", err)
		}
	}

	for _, s := range a.signallers {
		if err := s.SignallerSetup(); err != nil {
			return fmt.Errorf("setting up signaller: %w", err)
		}
	}

	for _, e := range a.elements {
		if err := e.ElementSetup(); err != nil {
			return fmt.Errorf("setting up element: %w", err)
		}
	}

	a.wallTime.Start()
	log.Printf("starting run: %d steps from step %d, %g ps per step",
		int64(a.plannedLastStep-a.initStep), int64(a.initStep),
		float64(a.timeStep))

	return nil
}

// Teardown brackets the end of the run. It tears down all elements in call
// order and prints the performance summary. Teardown runs at most once; the
// run enqueues it as its final task, and the runner calls it directly when a
// task fails mid-run.
func (a *Algorithm) Teardown() error {
	if a.tornDown {
		return nil
	}
	a.tornDown = true

	var firstErr error
	for _, e := range a.elements {
		if err := e.ElementTeardown(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("tearing down element: %w", err)
		}
	}

	nsteps := a.wallTime.NStepsDone()
	elapsed := a.wallTime.ElapsedSeconds()
	measured := nsteps - int64(a.wallTime.ResetStep()-a.initStep)
	if elapsed > 0 && measured > 0 {
		log.Printf("finished run: %d steps in %.2f s (%.1f steps/s)",
			nsteps, elapsed, float64(measured)/elapsed)
	}

	return firstErr
}

// GetNextTask returns the next task of the run, replanning the task queue
// when the current window is exhausted. It returns nil once the run is
// finished and the final teardown task has been handed out.
func (a *Algorithm) GetNextTask() sim.Task {
	if len(a.queue) != 0 {
		a.nextTask++
	}

	if a.nextTask >= len(a.queue) {
		if a.runFinished {
			return nil
		}

		a.populateTaskQueue()
	}

	return a.queue[a.nextTask]
}

// CurrentStep returns the last fully executed step plus one, i.e. the step
// the run is currently working on.
func (a *Algorithm) CurrentStep() sim.Step {
	return a.initStep + sim.Step(a.wallTime.NStepsDone())
}

// CurrentTime returns the simulated time of the current step.
func (a *Algorithm) CurrentTime() sim.Time {
	return sim.TimeAtStep(a.initTime, a.timeStep, a.CurrentStep())
}

// PlannedLastStep returns the last step the run will execute unless a stop
// condition ends it earlier.
func (a *Algorithm) PlannedLastStep() sim.Step {
	return a.plannedLastStep
}

// RunFinished reports whether the final task window has been planned.
func (a *Algorithm) RunFinished() bool {
	return a.runFinished
}

// RequestStop asks the run to end at the next neighbor-search step.
func (a *Algorithm) RequestStop() {
	a.stop.RequestStop()
}

// populateTaskQueue plans the next window of the run. It fires all
// signallers for the window's first step, runs the population-granularity
// helpers, and then walks the steps of the window, collecting a pre-step
// task, each element's tasks, and a post-step task per step. The window ends
// at the next neighbor-search step or once the step counter passes the last
// step; in the latter case the run is finished and the teardown task is
// appended.
func (a *Algorithm) populateTaskQueue() {
	a.queue = a.queue[:0]
	a.nextTask = 0

	time := sim.TimeAtStep(a.initTime, a.timeStep, a.step)
	a.fireSignallers(a.step, time)

	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    sim.HookPosQueuePopulate,
		Item:   a.step,
	})

	if a.checkpointHelper != nil {
		if err := a.checkpointHelper.Run(a.step); err != nil {
			a.failRun(a.step, err)
			return
		}
	}

	if a.partitionHelper != nil {
		if err := a.partitionHelper.Run(a.step); err != nil {
			a.failRun(a.step, err)
			return
		}
	}

	if a.loadBalanceHelper != nil {
		a.loadBalanceHelper.Run(a.step)
	}

	for {
		step := a.step
		stepTime := time
		isNSStep := step == a.helper.nextNSStep
		logThisStep := step == a.helper.loggingStep

		a.queue = append(a.queue, func() error {
			return a.preStep(step, stepTime, isNSStep)
		})

		register := func(t sim.Task) {
			a.queue = append(a.queue, func() error {
				if err := t(); err != nil {
					return fmt.Errorf("step %d: %w", step, err)
				}
				return nil
			})
		}

		for _, e := range a.elements {
			if err := e.ScheduleTask(step, stepTime, register); err != nil {
				a.failRun(step, err)
				return
			}
		}

		a.queue = append(a.queue, func() error {
			return a.postStep(step, stepTime, logThisStep)
		})

		a.step++
		time = sim.TimeAtStep(a.initTime, a.timeStep, a.step)
		a.fireSignallers(a.step, time)

		if a.step == a.helper.nextNSStep || a.step > a.helper.lastStep {
			break
		}
	}

	if a.step > a.helper.lastStep {
		a.runFinished = true
		a.queue = append(a.queue, a.Teardown)
	}
}

// preStep runs before the first task of each step. If a stop arrived that
// was not known when the window was planned and the step is not already the
// last step, the remaining plan is discarded and the step counter rewound;
// the next population cycle then sees this step as the final one. Already
// executed tasks are never undone, only un-run tasks are discarded.
func (a *Algorithm) preStep(step sim.Step, time sim.Time, isNSStep bool) error {
	if a.stop.StoppingAfterCurrentStep(isNSStep) &&
		step != a.helper.lastStep {
		a.truncate(step)
		return nil
	}

	if a.reset != nil {
		a.reset.SetSignal()
	}

	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    sim.HookPosPreStep,
		Item:   step,
		Detail: time,
	})

	return nil
}

// postStep runs after the last task of each step. It updates the step
// accounting, writes the periodic log line, and handles a pending counter
// reset between two steps.
func (a *Algorithm) postStep(step sim.Step, time sim.Time, logThisStep bool) error {
	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    sim.HookPosPostStep,
		Item:   step,
		Detail: time,
	})

	a.wallTime.SetNStepsDone(int64(step-a.initStep) + 1)

	if logThisStep {
		a.writeLog(step, time)
	}

	if a.reset != nil {
		a.reset.ResetCounters(step)
	}

	return nil
}

func (a *Algorithm) truncate(step sim.Step) {
	a.queue = a.queue[:0]
	a.nextTask = 0
	a.step = step

	// The discarded plan may have been the final window, including the
	// teardown task. The next population cycle replans the final step and
	// appends teardown again.
	a.runFinished = false
}

// failRun replaces the queue with a single task that tears the run down and
// surfaces the planning error with the triggering step.
func (a *Algorithm) failRun(step sim.Step, err error) {
	a.runFinished = true
	a.nextTask = 0
	a.queue = append(a.queue[:0], func() error {
		if teardownErr := a.Teardown(); teardownErr != nil {
			log.Printf("teardown after failure: %v", teardownErr)
		}

		return fmt.Errorf("planning tasks for step %d: %w", step, err)
	})
}

func (a *Algorithm) fireSignallers(step sim.Step, time sim.Time) {
	for _, s := range a.signallers {
		s.Signal(step, time)
	}
}

func (a *Algorithm) writeLog(step sim.Step, time sim.Time) {
	if a.energy != nil {
		log.Printf("step %8d  time %10.4f  E_kin %12.5f  E_pot %12.5f  "+
			"E_tot %12.5f  T %10.3f",
			int64(step), float64(time), a.energy.Kinetic(),
			a.energy.Potential(), a.energy.Total(), a.energy.Temperature())
	} else {
		log.Printf("step %8d  time %10.4f", int64(step), float64(time))
	}

	if a.verbose && step > a.wallTime.ResetStep() {
		fmt.Fprintf(os.Stderr,
			"step %d, estimated remaining wall time: %.0f s\n",
			int64(step),
			a.wallTime.RemainingSeconds(step, a.plannedLastStep))
	}
}
