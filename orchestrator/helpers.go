package orchestrator

import (
	"github.com/modsimlab/stride/element"
	"github.com/modsimlab/stride/sim"
	"github.com/modsimlab/stride/timing"
)

// A PartitionHelper repartitions the particles over domains once per
// queue-population cycle. Population boundaries coincide with neighbor-search
// steps, the only steps at which particles may move between domains.
type PartitionHelper struct {
	partitioner element.Partitioner
}

// NewPartitionHelper creates a PartitionHelper around the given partitioner.
func NewPartitionHelper(p element.Partitioner) *PartitionHelper {
	return &PartitionHelper{partitioner: p}
}

// Run repartitions for the cycle starting at the given step.
func (h *PartitionHelper) Run(step sim.Step) error {
	return h.partitioner.Repartition(step)
}

// A LoadBalanceHelper feeds observed step timings to the load balancer once
// per queue-population cycle, letting kernels retune between two plans
// without invalidating queued tasks.
type LoadBalanceHelper struct {
	balancer  element.LoadBalancer
	stepTimer *timing.StepTimer
}

// NewLoadBalanceHelper creates a LoadBalanceHelper around the given
// balancer.
func NewLoadBalanceHelper(
	b element.LoadBalancer,
	t *timing.StepTimer,
) *LoadBalanceHelper {
	return &LoadBalanceHelper{balancer: b, stepTimer: t}
}

// Run feeds the average step duration of the last cycle to the balancer.
func (h *LoadBalanceHelper) Run(step sim.Step) {
	if !h.balancer.Active() {
		return
	}

	h.balancer.Balance(step, h.stepTimer.AverageSeconds())
}
