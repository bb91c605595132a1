// Package orchestrator assembles signallers, elements, and cross-cutting
// helpers into one runnable simulation algorithm and drives its per-step
// loop. The algorithm plans work one finite window at a time, bounded by the
// next neighbor-search step, and hands the planned tasks to an outer runner
// one at a time. Stop requests, counter resets, and checkpoints flow through
// a fixed table of signal slots with one claimed writer per slot.
package orchestrator
