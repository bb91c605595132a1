// Package signaller implements the lifecycle signallers of the simulation
// algorithm. A signaller decides, from static run parameters, whether the
// current step constitutes one of its event kinds and notifies its registered
// clients. Client lists are frozen when the algorithm is built; the call
// order of the signallers is a declared total order owned by the algorithm
// builder.
package signaller
