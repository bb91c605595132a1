package element

import (
	"fmt"

	"github.com/modsimlab/stride/checkpoint"
	"github.com/modsimlab/stride/sim"
)

// StateData owns the microscopic state of the simulated system: positions,
// velocities, forces, the box matrix, and the particle masses. It is shared,
// read-mostly, between the elements of one algorithm; the propagator is its
// only per-step writer.
type StateData struct {
	sim.NamedBase

	pos    []Vec3
	vel    []Vec3
	force  []Vec3
	masses []float64
	box    [3][3]float64
}

// NewStateData creates a StateData owning the given initial configuration.
func NewStateData(
	pos, vel []Vec3,
	masses []float64,
	box [3][3]float64,
) *StateData {
	d := &StateData{
		NamedBase: sim.MakeNamedBase("state_data"),
		pos:       pos,
		vel:       vel,
		force:     make([]Vec3, len(pos)),
		masses:    masses,
		box:       box,
	}

	return d
}

// Setup validates the configuration. It must run before any element that
// reads the box geometry.
func (d *StateData) Setup() error {
	if len(d.vel) != len(d.pos) || len(d.masses) != len(d.pos) {
		return fmt.Errorf(
			"state data size mismatch: %d positions, %d velocities, %d masses",
			len(d.pos), len(d.vel), len(d.masses))
	}

	if boxDeterminant(d.box) <= 0 {
		return fmt.Errorf("degenerate box matrix, volume %f",
			boxDeterminant(d.box))
	}

	return nil
}

// NumParticles returns the number of particles.
func (d *StateData) NumParticles() int {
	return len(d.pos)
}

// Positions returns the position array. The caller must not resize it.
func (d *StateData) Positions() []Vec3 {
	return d.pos
}

// Velocities returns the velocity array. The caller must not resize it.
func (d *StateData) Velocities() []Vec3 {
	return d.vel
}

// Forces returns the force array. The force element overwrites it each step.
func (d *StateData) Forces() []Vec3 {
	return d.force
}

// Masses returns the particle masses.
func (d *StateData) Masses() []float64 {
	return d.masses
}

// Box returns the box matrix.
func (d *StateData) Box() [3][3]float64 {
	return d.box
}

// ScaleBox multiplies all box vectors and positions by the given factor. It
// is called by the barostat through its propagator connection.
func (d *StateData) ScaleBox(factor float64) {
	for i := range d.box {
		for j := range d.box[i] {
			d.box[i][j] *= factor
		}
	}

	for i := range d.pos {
		for j := range d.pos[i] {
			d.pos[i][j] *= factor
		}
	}
}

// KineticEnergy returns the instantaneous kinetic energy.
func (d *StateData) KineticEnergy() float64 {
	ke := 0.0
	for i, v := range d.vel {
		ke += 0.5 * d.masses[i] *
			(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	}

	return ke
}

// Volume returns the box volume.
func (d *StateData) Volume() float64 {
	return boxDeterminant(d.box)
}

// State returns the checkpointable view of the state data.
func (d *StateData) State() checkpoint.State {
	return d
}

// SetState restores the state data from a checkpointed state. The state is
// deserialized in place, so there is nothing left to do.
func (d *StateData) SetState(checkpoint.State) {}

// Serialize captures positions, velocities, and the box.
func (d *StateData) Serialize() (map[string]interface{}, error) {
	return map[string]interface{}{
		"positions":  flattenVecs(d.pos),
		"velocities": flattenVecs(d.vel),
		"box":        flattenBox(d.box),
	}, nil
}

// Deserialize restores positions, velocities, and the box.
func (d *StateData) Deserialize(data map[string]interface{}) error {
	pos, err := unflattenVecs(data["positions"], len(d.pos))
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	vel, err := unflattenVecs(data["velocities"], len(d.vel))
	if err != nil {
		return fmt.Errorf("velocities: %w", err)
	}

	box, err := unflattenBox(data["box"])
	if err != nil {
		return fmt.Errorf("box: %w", err)
	}

	d.pos = pos
	d.vel = vel
	d.box = box

	return nil
}

func boxDeterminant(b [3][3]float64) float64 {
	return b[0][0]*(b[1][1]*b[2][2]-b[1][2]*b[2][1]) -
		b[0][1]*(b[1][0]*b[2][2]-b[1][2]*b[2][0]) +
		b[0][2]*(b[1][0]*b[2][1]-b[1][1]*b[2][0])
}

func flattenVecs(vs []Vec3) []float64 {
	flat := make([]float64, 0, 3*len(vs))
	for _, v := range vs {
		flat = append(flat, v[0], v[1], v[2])
	}

	return flat
}

func flattenBox(b [3][3]float64) []float64 {
	flat := make([]float64, 0, 9)
	for i := range b {
		flat = append(flat, b[i][0], b[i][1], b[i][2])
	}

	return flat
}

func toFloats(value interface{}) ([]float64, error) {
	raw, ok := value.([]interface{})
	if !ok {
		floats, ok := value.([]float64)
		if !ok {
			return nil, fmt.Errorf("not a number array: %T", value)
		}

		return floats, nil
	}

	floats := make([]float64, len(raw))
	for i, item := range raw {
		f, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("not a number: %T", item)
		}

		floats[i] = f
	}

	return floats, nil
}

func unflattenVecs(value interface{}, n int) ([]Vec3, error) {
	flat, err := toFloats(value)
	if err != nil {
		return nil, err
	}

	if len(flat) != 3*n {
		return nil, fmt.Errorf("expected %d values, got %d", 3*n, len(flat))
	}

	vs := make([]Vec3, n)
	for i := range vs {
		vs[i] = Vec3{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}

	return vs, nil
}

func unflattenBox(value interface{}) ([3][3]float64, error) {
	var box [3][3]float64

	flat, err := toFloats(value)
	if err != nil {
		return box, err
	}

	if len(flat) != 9 {
		return box, fmt.Errorf("expected 9 values, got %d", len(flat))
	}

	for i := 0; i < 3; i++ {
		box[i] = [3]float64{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}

	return box, nil
}
