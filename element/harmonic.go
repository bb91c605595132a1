package element

// HarmonicWellForce binds every particle to the origin with a harmonic
// spring. It serves as a self-contained reference force provider; real
// kernels live behind the same contract.
type HarmonicWellForce struct {
	SpringConstant float64
}

// ComputeForces fills force with the spring forces and returns the potential
// energy and virial when requested.
func (f HarmonicWellForce) ComputeForces(
	pos []Vec3,
	force []Vec3,
	calcEnergy bool,
	calcVirial bool,
) (potential, virial float64, err error) {
	for i, x := range pos {
		for j := 0; j < 3; j++ {
			force[i][j] = -f.SpringConstant * x[j]
		}

		if calcEnergy {
			potential += 0.5 * f.SpringConstant *
				(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
		}

		if calcVirial {
			virial += x[0]*force[i][0] + x[1]*force[i][1] + x[2]*force[i][2]
		}
	}

	return potential, virial, nil
}
