// Package element implements the computational units that the simulation
// algorithm weaves into one per-step execution order. Physical kernels
// (forces, constraints, partitioning) stay behind capability contracts; the
// elements own the per-step bookkeeping around them and contribute tasks to
// the algorithm's task queue.
package element
