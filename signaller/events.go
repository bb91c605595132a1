package signaller

// TrajectoryEvent distinguishes the event kinds of the trajectory signaller.
type TrajectoryEvent int

// The trajectory signaller event kinds.
const (
	StateWritingStep TrajectoryEvent = iota
	EnergyWritingStep
)

// EnergyEvent distinguishes the event kinds of the energy signaller.
type EnergyEvent int

// The energy signaller event kinds.
const (
	EnergyCalculationStep EnergyEvent = iota
	VirialCalculationStep
	FreeEnergyCalculationStep
)
