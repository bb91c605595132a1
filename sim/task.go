package sim

// A Task is one deferred, non-blocking unit of work. Tasks are created during
// task-queue population and run by the outer driver, one at a time. A task
// only captures state that is owned by the algorithm that created it, so it
// must never be run after that algorithm is torn down.
type Task func() error

// RegisterTaskFunc appends a task to the task queue that is currently being
// populated. It is handed to elements once per step so that they can
// contribute their work for that step.
type RegisterTaskFunc func(t Task)
