package checkpoint

import (
	"fmt"
	"os"

	"github.com/modsimlab/stride/sim"
)

// A Manager writes and restores durable snapshots of the run state. Each
// snapshot is keyed by the step at which it was taken. Holders register at
// build time; their registration order does not matter because snapshots are
// keyed by holder name.
type Manager struct {
	path    string
	codec   Codec
	holders map[string]StateHolder
}

// NewManager creates a Manager that writes snapshots to the given file path.
func NewManager(path string) *Manager {
	return &Manager{
		path:    path,
		codec:   JSONCodec{},
		holders: make(map[string]StateHolder),
	}
}

// RegisterHolder registers a state holder to be included in snapshots.
// Registering two holders with the same name is a configuration error.
func (m *Manager) RegisterHolder(h StateHolder) {
	name := h.Name()
	if _, ok := m.holders[name]; ok {
		panic("checkpoint holder " + name + " already registered")
	}

	m.holders[name] = h
}

// Save writes a snapshot of all registered holders, keyed by the given step.
// The snapshot is written to a temporary file first so that an interrupted
// write cannot destroy the previous checkpoint.
func (m *Manager) Save(step sim.Step) error {
	data := map[string]any{
		"step": int64(step),
	}

	states := make(map[string]any)
	for name, holder := range m.holders {
		state := holder.State()
		if state == nil {
			continue
		}

		serialized, err := state.Serialize()
		if err != nil {
			return fmt.Errorf("serializing %s: %w", name, err)
		}

		states[name] = serialized
	}
	data["states"] = states

	tmpPath := m.path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	if err := m.codec.Encode(file, data); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, m.path)
}

// Load restores all registered holders from the snapshot on disk and returns
// the step the snapshot was taken at.
func (m *Manager) Load() (sim.Step, error) {
	file, err := os.Open(m.path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	data, err := m.codec.Decode(file)
	if err != nil {
		return 0, err
	}

	stepValue, ok := data["step"].(float64)
	if !ok {
		return 0, fmt.Errorf("checkpoint %s has no step key", m.path)
	}

	states, _ := data["states"].(map[string]any)
	for name, holder := range m.holders {
		serialized, ok := states[name].(map[string]any)
		if !ok {
			continue
		}

		state := holder.State()
		if state == nil {
			continue
		}

		if err := state.Deserialize(serialized); err != nil {
			return 0, fmt.Errorf("restoring %s: %w", name, err)
		}

		holder.SetState(state)
	}

	return sim.Step(stepValue), nil
}
