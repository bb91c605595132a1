package orchestrator

import (
	"log"
	"sync"

	"github.com/modsimlab/stride/sim"
)

// A Runner drives an Algorithm to completion, pulling one task at a time.
// The run can be paused, continued, and stopped from other goroutines, e.g.
// the web monitor; tasks themselves always run on the goroutine that called
// Run.
type Runner struct {
	algorithm *Algorithm

	pauseLock sync.Mutex
}

// NewRunner creates a Runner driving the given algorithm.
func NewRunner(a *Algorithm) *Runner {
	return &Runner{algorithm: a}
}

// Run sets the algorithm up and executes tasks until the run finishes or a
// task fails. On failure the algorithm is torn down before the error is
// returned.
func (r *Runner) Run() error {
	if err := r.algorithm.Setup(); err != nil {
		return err
	}

	for {
		r.pauseLock.Lock()

		task := r.algorithm.GetNextTask()
		if task == nil {
			r.pauseLock.Unlock()
			return nil
		}

		err := task()
		r.pauseLock.Unlock()

		if err != nil {
			if tdErr := r.algorithm.Teardown(); tdErr != nil {
				log.Printf("teardown after task failure: %v", tdErr)
			}

			return err
		}
	}
}

// Pause blocks the run before its next task. It must be paired with
// Continue.
func (r *Runner) Pause() {
	r.pauseLock.Lock()
}

// Continue resumes a paused run.
func (r *Runner) Continue() {
	r.pauseLock.Unlock()
}

// Stop asks the run to end at the next neighbor-search step. The run still
// writes its final output and tears down cleanly.
func (r *Runner) Stop() {
	r.algorithm.RequestStop()
}

// CurrentStep returns the step the run is currently working on.
func (r *Runner) CurrentStep() sim.Step {
	return r.algorithm.CurrentStep()
}

// CurrentTime returns the simulated time of the current step.
func (r *Runner) CurrentTime() sim.Time {
	return r.algorithm.CurrentTime()
}

// Progress returns the completed fraction of the planned run.
func (r *Runner) Progress() float64 {
	a := r.algorithm

	total := a.PlannedLastStep() - a.initStep + 1
	if total <= 0 {
		return 1
	}

	return float64(a.CurrentStep()-a.initStep) / float64(total)
}

// RunFinished reports whether the run has planned its final task window.
func (r *Runner) RunFinished() bool {
	return r.algorithm.RunFinished()
}
