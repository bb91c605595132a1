package sim

// SignalID identifies one of the fixed cross-cutting signal slots that are
// shared between the driver, the elements, and external triggers.
type SignalID int

// The full set of signal slots. The table is fixed at compile time.
const (
	SignalStopCondition SignalID = iota
	SignalCheckpoint
	SignalResetCounters
	numSignals
)

func (id SignalID) String() string {
	switch id {
	case SignalStopCondition:
		return "StopCondition"
	case SignalCheckpoint:
		return "Checkpoint"
	case SignalResetCounters:
		return "ResetCounters"
	}

	return "Unknown"
}

// SignalValue is the value held by one signal slot. The stop-condition slot
// uses the sign to distinguish a deferred stop from an immediate one.
type SignalValue int8

// Values of the stop-condition slot.
const (
	StopNone          SignalValue = 0
	StopAtNextNSStep  SignalValue = 1
	StopAfterThisStep SignalValue = -1
)

// Signals is a small fixed-size table of named signal slots. Each slot has at
// most one authoritative writer, claimed at build time, and any number of
// readers. A slot's value is only meaningful after all signallers for the
// current step have fired.
type Signals struct {
	values  [numSignals]SignalValue
	writers [numSignals]string
}

// NewSignals creates a Signals table with all slots cleared and unclaimed.
func NewSignals() *Signals {
	return &Signals{}
}

// ClaimWriter registers the single authoritative writer of a slot. Claiming a
// slot that already has a writer is a configuration error.
func (s *Signals) ClaimWriter(id SignalID, writer string) {
	if s.writers[id] != "" {
		panic("signal slot " + id.String() +
			" already claimed by " + s.writers[id])
	}

	s.writers[id] = writer
}

// Set writes a slot value. Only the claimed writer may call Set.
func (s *Signals) Set(id SignalID, writer string, v SignalValue) {
	if s.writers[id] != writer {
		panic("signal slot " + id.String() +
			" written by " + writer + ", claimed by " + s.writers[id])
	}

	s.values[id] = v
}

// Value reads a slot without clearing it.
func (s *Signals) Value(id SignalID) SignalValue {
	return s.values[id]
}

// Consume reads a slot and clears it. It is called by the slot's consumer
// once the value has been acted upon.
func (s *Signals) Consume(id SignalID) SignalValue {
	v := s.values[id]
	s.values[id] = 0
	return v
}
