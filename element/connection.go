package element

// A ThermostatConnection connects a temperature-coupling element to a
// propagator that can scale velocities. Propagators declare connections with
// the algorithm builder; coupling elements register functions consuming them.
// The builder resolves all pairs in one pass before the algorithm is built.
type ThermostatConnection struct {
	// PropagatorTag identifies the propagator offering the connection.
	PropagatorTag string

	// SetVelocityScaling sets the factor applied to all velocities during
	// the propagator's next update.
	SetVelocityScaling func(factor float64)
}

// A BarostatConnection connects a pressure-coupling element to a propagator
// that can scale the box and the positions.
type BarostatConnection struct {
	// PropagatorTag identifies the propagator offering the connection.
	PropagatorTag string

	// ScaleBoxAndPositions scales the box matrix and all positions by the
	// given factor.
	ScaleBoxAndPositions func(factor float64)
}
