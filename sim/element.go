package sim

// An Element is a pluggable unit of per-step computation. Elements are built
// by the algorithm builder, owned by exactly one algorithm, and asked once per
// step to contribute tasks to the task queue.
type Element interface {
	// ElementSetup is called once after all elements exist and before the
	// first step. It validates preconditions that depend on global state.
	ElementSetup() error

	// ScheduleTask is called once per step, in the fixed element call order.
	// It contributes zero or more tasks by calling register. ScheduleTask
	// must not block. A non-nil error terminates the run.
	ScheduleTask(step Step, time Time, register RegisterTaskFunc) error

	// ElementTeardown is called once, after the final task of the run.
	ElementTeardown() error
}
