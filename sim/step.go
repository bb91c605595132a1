package sim

// Step identifies one discrete simulation iteration. Steps increase
// monotonically over a run and may start from a non-zero value when a run is
// continued from a checkpoint.
type Step int64

// Time is the simulated time in the unit of picosecond.
type Time float64

// TimeAtStep computes the simulated time of a step from the run origin.
func TimeAtStep(initTime Time, timeStep Time, step Step) Time {
	return initTime + Time(step)*timeStep
}

// DoPerStep tells if a periodic action with the given interval is due at the
// given step. An interval of zero or less means the action never runs.
func DoPerStep(step Step, interval Step) bool {
	if interval <= 0 {
		return false
	}

	return step%interval == 0
}
