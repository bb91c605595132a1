package orchestrator

import (
	"fmt"

	"github.com/modsimlab/stride/checkpoint"
	"github.com/modsimlab/stride/element"
	"github.com/modsimlab/stride/signaller"
	"github.com/modsimlab/stride/sim"
	"github.com/modsimlab/stride/timing"
)

// RunParams are the static parameters of one run. Intervals are in steps; an
// interval of zero or less disables the periodic action.
type RunParams struct {
	InitStep sim.Step
	NumSteps sim.Step
	InitTime sim.Time
	TimeStep sim.Time

	NeighborSearchInterval sim.Step
	LoggingInterval        sim.Step

	StateWritingInterval  sim.Step
	EnergyWritingInterval sim.Step

	EnergyCalculationInterval     sim.Step
	VirialCalculationInterval     sim.Step
	FreeEnergyCalculationInterval sim.Step

	MaxHours                float64
	ResetCountersHalfway    bool
	CheckpointPeriodMinutes float64
}

// A Builder wires signallers, elements, and their cross-connections into one
// Algorithm. Elements register in construction order; the builder fixes the
// element call order and the signaller call order, resolves all declared
// thermostat and barostat connections in one pass, and freezes every client
// list. Building twice from one builder is a configuration error.
type Builder struct {
	params RunParams

	state      *element.StateData
	energy     *element.EnergyData
	freeEnergy *element.FreeEnergyData

	userElements []sim.Element
	trajWriter   sim.Element

	checkpointManager *checkpoint.Manager
	holders           []checkpoint.StateHolder
	restart           bool

	partitioner  element.Partitioner
	loadBalancer element.LoadBalancer

	timingInserter timing.Inserter
	stopConditions []StopCondition
	osSignals      bool
	verbose        bool

	built bool
}

// NewBuilder creates a Builder for a run with the given parameters.
func NewBuilder(params RunParams) *Builder {
	if params.NumSteps < 0 {
		panic(fmt.Sprintf("negative step count %d", params.NumSteps))
	}

	return &Builder{params: params}
}

// WithStateData registers the shared state data. Its validation runs before
// any element setup, so elements can rely on the box geometry.
func (b *Builder) WithStateData(d *element.StateData) *Builder {
	b.state = d
	b.holders = append(b.holders, d)
	return b
}

// WithEnergyData registers the shared energy data, enabling energy terms in
// the periodic log line.
func (b *Builder) WithEnergyData(d *element.EnergyData) *Builder {
	b.energy = d
	return b
}

// WithFreeEnergy registers the free-energy data. Its lambda-advancing
// element runs directly after the checkpoint helper, before the physics
// elements, so they see the step's lambda value.
func (b *Builder) WithFreeEnergy(d *element.FreeEnergyData) *Builder {
	b.freeEnergy = d
	b.holders = append(b.holders, d)
	return b
}

// AddElement appends an element to the call list. Elements run in
// registration order, after the bookkeeping elements and before the
// trajectory writer.
func (b *Builder) AddElement(e sim.Element) *Builder {
	b.userElements = append(b.userElements, e)
	return b
}

// WithTrajectoryWriter sets the trajectory writer. It runs last, persisting
// the values all upstream elements produced for the step.
func (b *Builder) WithTrajectoryWriter(w sim.Element) *Builder {
	b.trajWriter = w
	return b
}

// WithCheckpointManager enables checkpointing through the given manager.
func (b *Builder) WithCheckpointManager(m *checkpoint.Manager) *Builder {
	b.checkpointManager = m
	return b
}

// WithRestart makes the run continue from the checkpoint on disk.
func (b *Builder) WithRestart() *Builder {
	b.restart = true
	return b
}

// WithPartitioner enables domain repartitioning at queue-population
// boundaries.
func (b *Builder) WithPartitioner(p element.Partitioner) *Builder {
	b.partitioner = p
	return b
}

// WithLoadBalancer enables load balancing at queue-population boundaries.
func (b *Builder) WithLoadBalancer(lb element.LoadBalancer) *Builder {
	b.loadBalancer = lb
	return b
}

// WithStepTimingInserter records per-step durations through the given
// inserter, typically the data recorder.
func (b *Builder) WithStepTimingInserter(ins timing.Inserter) *Builder {
	b.timingInserter = ins
	return b
}

// AddStopCondition adds a stop condition polled once per step.
func (b *Builder) AddStopCondition(c StopCondition) *Builder {
	b.stopConditions = append(b.stopConditions, c)
	return b
}

// WithOSSignalHandling ends the run cleanly on SIGINT or SIGTERM.
func (b *Builder) WithOSSignalHandling() *Builder {
	b.osSignals = true
	return b
}

// WithVerboseLog prints a remaining-time estimate on logging steps.
func (b *Builder) WithVerboseLog() *Builder {
	b.verbose = true
	return b
}

// Build assembles the Algorithm. All configuration errors panic here, before
// any step executes.
func (b *Builder) Build() *Algorithm {
	if b.built {
		panic("algorithm already built from this builder")
	}
	b.built = true

	signals := sim.NewSignals()
	wallTime := timing.NewWallTime()
	stepTimer := timing.NewStepTimer(b.timingInserter)

	stop := b.buildStopHandler(signals, wallTime)
	reset := b.buildResetHandler(signals, wallTime, stepTimer)
	cpHelper, initStep := b.buildCheckpointing(signals, wallTime)

	b.resolveConnections()

	callList := b.elementCallList(cpHelper)

	helper := newSignalHelper()
	signallers := b.buildSignallers(stop, helper, callList, initStep)

	a := &Algorithm{
		signallers:      signallers,
		elements:        callList,
		helper:          helper,
		stop:            stop,
		reset:           reset,
		wallTime:        wallTime,
		energy:          b.energy,
		initStep:        initStep,
		initTime:        b.params.InitTime,
		timeStep:        b.params.TimeStep,
		plannedLastStep: initStep + b.params.NumSteps,
		verbose:         b.verbose,
		step:            initStep,
	}

	a.checkpointHelper = cpHelper
	if b.partitioner != nil {
		a.partitionHelper = NewPartitionHelper(b.partitioner)
	}
	if b.loadBalancer != nil {
		a.loadBalanceHelper = NewLoadBalanceHelper(b.loadBalancer, stepTimer)
	}

	if b.state != nil {
		a.preSetups = append(a.preSetups, b.state.Setup)
	}

	a.AcceptHook(stepTimer)

	return a
}

func (b *Builder) buildStopHandler(
	signals *sim.Signals,
	wallTime *timing.WallTime,
) *StopHandler {
	stop := NewStopHandler(signals)

	for _, c := range b.stopConditions {
		stop.RegisterCondition(c)
	}

	if b.osSignals {
		stop.RegisterCondition(OSSignalStopCondition())
	}

	if b.params.MaxHours > 0 {
		stop.RegisterCondition(
			MaxHoursStopCondition(wallTime, b.params.MaxHours))
	}

	return stop
}

func (b *Builder) buildResetHandler(
	signals *sim.Signals,
	wallTime *timing.WallTime,
	stepTimer *timing.StepTimer,
) *ResetHandler {
	if !b.params.ResetCountersHalfway || b.params.MaxHours <= 0 {
		return nil
	}

	return NewResetHandler(signals, wallTime, stepTimer, b.params.MaxHours)
}

func (b *Builder) buildCheckpointing(
	signals *sim.Signals,
	wallTime *timing.WallTime,
) (*CheckpointHelper, sim.Step) {
	initStep := b.params.InitStep

	if b.checkpointManager == nil {
		if b.restart {
			panic("restart requested without a checkpoint manager")
		}

		return nil, initStep
	}

	for _, h := range b.holders {
		b.checkpointManager.RegisterHolder(h)
	}

	if b.restart {
		step, err := b.checkpointManager.Load()
		if err != nil {
			panic(fmt.Errorf("restoring checkpoint: %w", err))
		}

		initStep = step
	}

	helper := NewCheckpointHelper(signals, b.checkpointManager, wallTime,
		b.params.CheckpointPeriodMinutes)

	return helper, initStep
}

// resolveConnections matches every registered coupling element against every
// declared propagator connection. A coupling element without a matching
// propagator is a configuration error surfaced by its setup.
func (b *Builder) resolveConnections() {
	var thermostatConns []element.ThermostatConnection
	var barostatConns []element.BarostatConnection
	var thermostatRegs []func(element.ThermostatConnection)
	var barostatRegs []func(element.BarostatConnection)

	for _, e := range b.userElements {
		if p, ok := e.(interface {
			ThermostatConnection() element.ThermostatConnection
		}); ok {
			thermostatConns = append(thermostatConns, p.ThermostatConnection())
		}

		if p, ok := e.(interface {
			BarostatConnection() element.BarostatConnection
		}); ok {
			barostatConns = append(barostatConns, p.BarostatConnection())
		}

		if r, ok := e.(interface {
			ConnectionRegistration() func(element.ThermostatConnection)
		}); ok {
			thermostatRegs = append(thermostatRegs, r.ConnectionRegistration())
		}

		if r, ok := e.(interface {
			ConnectionRegistration() func(element.BarostatConnection)
		}); ok {
			barostatRegs = append(barostatRegs, r.ConnectionRegistration())
		}
	}

	if len(thermostatRegs) > 0 && len(thermostatConns) == 0 {
		panic("thermostat registered without a propagator connection")
	}

	if len(barostatRegs) > 0 && len(barostatConns) == 0 {
		panic("barostat registered without a propagator connection")
	}

	for _, reg := range thermostatRegs {
		for _, conn := range thermostatConns {
			reg(conn)
		}
	}

	for _, reg := range barostatRegs {
		for _, conn := range barostatConns {
			reg(conn)
		}
	}
}

// elementCallList fixes the element call order: checkpoint bookkeeping
// first, the free-energy updater second, the user elements in registration
// order, the trajectory writer last.
func (b *Builder) elementCallList(cpHelper *CheckpointHelper) []sim.Element {
	var callList []sim.Element

	if cpHelper != nil {
		callList = append(callList, cpHelper)
	}

	if b.freeEnergy != nil {
		callList = append(callList, b.freeEnergy.Element())
	}

	callList = append(callList, b.userElements...)

	if b.trajWriter != nil {
		callList = append(callList, b.trajWriter)
	}

	return callList
}

// buildSignallers constructs the signallers dependents-first, so that each
// signaller can register as a client of the signallers it listens to, and
// returns them in the declared call order: neighbor-search, last-step,
// logging, trajectory, energy.
func (b *Builder) buildSignallers(
	stop *StopHandler,
	helper *signalHelper,
	callList []sim.Element,
	initStep sim.Step,
) []sim.Signaller {
	clients := make([]any, 0, len(callList)+1)
	for _, e := range callList {
		clients = append(clients, e)
	}
	clients = append(clients, helper)

	energyBuilder := signaller.MakeEnergyBuilder().
		WithCalculationInterval(b.params.EnergyCalculationInterval).
		WithVirialInterval(b.params.VirialCalculationInterval).
		WithFreeEnergyInterval(b.params.FreeEnergyCalculationInterval)
	for _, c := range clients {
		if ec, ok := c.(signaller.EnergyClient); ok {
			energyBuilder = energyBuilder.RegisterClient(ec)
		}
	}
	energySig := energyBuilder.Build()

	trajBuilder := signaller.MakeTrajectoryBuilder().
		WithStateInterval(b.params.StateWritingInterval).
		WithEnergyInterval(b.params.EnergyWritingInterval)
	for _, c := range clients {
		if tc, ok := c.(signaller.TrajectoryClient); ok {
			trajBuilder = trajBuilder.RegisterClient(tc)
		}
	}
	trajBuilder = trajBuilder.RegisterClient(energySig)
	trajSig := trajBuilder.Build()

	loggingBuilder := signaller.MakeLoggingBuilder().
		WithInterval(b.params.LoggingInterval).
		WithInitStep(initStep)
	for _, c := range clients {
		if lc, ok := c.(signaller.LoggingClient); ok {
			loggingBuilder = loggingBuilder.RegisterClient(lc)
		}
	}
	loggingSig := loggingBuilder.Build()

	lastStepBuilder := signaller.MakeLastStepBuilder().
		WithNumSteps(b.params.NumSteps).
		WithInitStep(initStep).
		WithStopQuerier(stop)
	for _, c := range clients {
		if lc, ok := c.(signaller.LastStepClient); ok {
			lastStepBuilder = lastStepBuilder.RegisterClient(lc)
		}
	}
	lastStepBuilder = lastStepBuilder.
		RegisterClient(loggingSig).
		RegisterClient(trajSig)
	lastSig := lastStepBuilder.Build()

	nsBuilder := signaller.MakeNeighborSearchBuilder().
		WithInterval(b.params.NeighborSearchInterval).
		WithInitStep(initStep)
	for _, c := range clients {
		if nc, ok := c.(signaller.NeighborSearchClient); ok {
			nsBuilder = nsBuilder.RegisterClient(nc)
		}
	}
	nsBuilder = nsBuilder.RegisterClient(lastSig)
	nsSig := nsBuilder.Build()

	return []sim.Signaller{nsSig, lastSig, loggingSig, trajSig, energySig}
}
