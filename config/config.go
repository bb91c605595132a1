// Package config loads run configurations from YAML files and converts them
// to the orchestrator's run parameters.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/modsimlab/stride/orchestrator"
	"github.com/modsimlab/stride/sim"
)

const (
	DefaultTimeStep               = 0.002
	DefaultNumSteps               = 10000
	DefaultNeighborSearchInterval = 10
	DefaultLoggingInterval        = 100
	DefaultStateInterval          = 100
	DefaultEnergyInterval         = 100
	DefaultEnergyCalcInterval     = 10
	DefaultCheckpointMinutes      = 15.0
)

type Config struct {
	InitStep int64   `yaml:"init_step"`
	NumSteps int64   `yaml:"num_steps"`
	InitTime float64 `yaml:"init_time"`
	TimeStep float64 `yaml:"time_step"`

	Intervals  IntervalConfig   `yaml:"intervals"`
	Run        RunConfig        `yaml:"run"`
	Thermostat ThermostatConfig `yaml:"thermostat"`
	Barostat   BarostatConfig   `yaml:"barostat"`
	FreeEnergy FreeEnergyConfig `yaml:"free_energy"`
	System     SystemConfig     `yaml:"system"`
}

type IntervalConfig struct {
	NeighborSearch int64 `yaml:"neighbor_search"`
	Logging        int64 `yaml:"logging"`
	StateWriting   int64 `yaml:"state_writing"`
	EnergyWriting  int64 `yaml:"energy_writing"`
	EnergyCalc     int64 `yaml:"energy_calc"`
	VirialCalc     int64 `yaml:"virial_calc"`
	FreeEnergyCalc int64 `yaml:"free_energy_calc"`
}

type RunConfig struct {
	MaxHours             float64 `yaml:"max_hours"`
	ResetCountersHalfway bool    `yaml:"reset_counters_halfway"`
	CheckpointMinutes    float64 `yaml:"checkpoint_minutes"`
	CheckpointPath       string  `yaml:"checkpoint_path"`
	Restart              bool    `yaml:"restart"`
	OutputPath           string  `yaml:"output_path"`
	Verbose              bool    `yaml:"verbose"`
	MonitorPort          int     `yaml:"monitor_port"`
}

type ThermostatConfig struct {
	Enabled        bool    `yaml:"enabled"`
	RefTemperature float64 `yaml:"ref_temperature"`
	Tau            float64 `yaml:"tau"`
	Interval       int64   `yaml:"interval"`
}

type BarostatConfig struct {
	Enabled         bool    `yaml:"enabled"`
	RefPressure     float64 `yaml:"ref_pressure"`
	Tau             float64 `yaml:"tau"`
	Compressibility float64 `yaml:"compressibility"`
	Interval        int64   `yaml:"interval"`
}

type FreeEnergyConfig struct {
	Enabled     bool    `yaml:"enabled"`
	InitLambda  float64 `yaml:"init_lambda"`
	DeltaLambda float64 `yaml:"delta_lambda"`
}

type SystemConfig struct {
	NumParticles   int     `yaml:"num_particles"`
	BoxLength      float64 `yaml:"box_length"`
	SpringConstant float64 `yaml:"spring_constant"`
	Cutoff         float64 `yaml:"cutoff"`
	Seed           int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		NumSteps: DefaultNumSteps,
		TimeStep: DefaultTimeStep,
		Intervals: IntervalConfig{
			NeighborSearch: DefaultNeighborSearchInterval,
			Logging:        DefaultLoggingInterval,
			StateWriting:   DefaultStateInterval,
			EnergyWriting:  DefaultEnergyInterval,
			EnergyCalc:     DefaultEnergyCalcInterval,
		},
		Run: RunConfig{
			CheckpointMinutes: DefaultCheckpointMinutes,
		},
		System: SystemConfig{
			NumParticles:   125,
			BoxLength:      5.0,
			SpringConstant: 1.0,
			Cutoff:         1.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for values the run cannot start with.
func (c *Config) Validate() error {
	if c.NumSteps < 0 {
		return fmt.Errorf("num_steps must not be negative, got %d",
			c.NumSteps)
	}

	if c.TimeStep <= 0 {
		return fmt.Errorf("time_step must be positive, got %g", c.TimeStep)
	}

	if c.System.NumParticles <= 0 {
		return fmt.Errorf("num_particles must be positive, got %d",
			c.System.NumParticles)
	}

	if c.System.BoxLength <= 0 {
		return fmt.Errorf("box_length must be positive, got %g",
			c.System.BoxLength)
	}

	if c.Thermostat.Enabled && c.Thermostat.Tau <= 0 {
		return fmt.Errorf("thermostat tau must be positive, got %g",
			c.Thermostat.Tau)
	}

	if c.Barostat.Enabled && c.Barostat.Tau <= 0 {
		return fmt.Errorf("barostat tau must be positive, got %g",
			c.Barostat.Tau)
	}

	if c.Run.Restart && c.Run.CheckpointPath == "" {
		return fmt.Errorf("restart requires checkpoint_path")
	}

	return nil
}

// RunParams converts the configuration into orchestrator run parameters.
func (c *Config) RunParams() orchestrator.RunParams {
	return orchestrator.RunParams{
		InitStep:                      sim.Step(c.InitStep),
		NumSteps:                      sim.Step(c.NumSteps),
		InitTime:                      sim.Time(c.InitTime),
		TimeStep:                      sim.Time(c.TimeStep),
		NeighborSearchInterval:        sim.Step(c.Intervals.NeighborSearch),
		LoggingInterval:               sim.Step(c.Intervals.Logging),
		StateWritingInterval:          sim.Step(c.Intervals.StateWriting),
		EnergyWritingInterval:         sim.Step(c.Intervals.EnergyWriting),
		EnergyCalculationInterval:     sim.Step(c.Intervals.EnergyCalc),
		VirialCalculationInterval:     sim.Step(c.Intervals.VirialCalc),
		FreeEnergyCalculationInterval: sim.Step(c.Intervals.FreeEnergyCalc),
		MaxHours:                      c.Run.MaxHours,
		ResetCountersHalfway:          c.Run.ResetCountersHalfway,
		CheckpointPeriodMinutes:       c.Run.CheckpointMinutes,
	}
}
