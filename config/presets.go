package config

// Presets are ready-made run configurations. A preset is the starting point;
// values from a YAML file or flags override it.
var Presets = map[string]*Config{
	"quick": {
		NumSteps: 1000,
		TimeStep: 0.002,
		Intervals: IntervalConfig{
			NeighborSearch: 10,
			Logging:        100,
			StateWriting:   100,
			EnergyWriting:  50,
			EnergyCalc:     10,
		},
		System: SystemConfig{
			NumParticles:   64,
			BoxLength:      4.0,
			SpringConstant: 1.0,
			Cutoff:         1.0,
		},
	},
	"nvt": {
		NumSteps: 50000,
		TimeStep: 0.002,
		Intervals: IntervalConfig{
			NeighborSearch: 20,
			Logging:        500,
			StateWriting:   1000,
			EnergyWriting:  100,
			EnergyCalc:     20,
		},
		Run: RunConfig{
			CheckpointMinutes: 15,
		},
		Thermostat: ThermostatConfig{
			Enabled:        true,
			RefTemperature: 1.0,
			Tau:            0.5,
			Interval:       20,
		},
		System: SystemConfig{
			NumParticles:   216,
			BoxLength:      6.0,
			SpringConstant: 1.0,
			Cutoff:         1.2,
		},
	},
	"npt": {
		NumSteps: 50000,
		TimeStep: 0.002,
		Intervals: IntervalConfig{
			NeighborSearch: 20,
			Logging:        500,
			StateWriting:   1000,
			EnergyWriting:  100,
			EnergyCalc:     20,
			VirialCalc:     20,
		},
		Run: RunConfig{
			CheckpointMinutes: 15,
		},
		Thermostat: ThermostatConfig{
			Enabled:        true,
			RefTemperature: 1.0,
			Tau:            0.5,
			Interval:       20,
		},
		Barostat: BarostatConfig{
			Enabled:         true,
			RefPressure:     1.0,
			Tau:             2.0,
			Compressibility: 0.05,
			Interval:        20,
		},
		System: SystemConfig{
			NumParticles:   216,
			BoxLength:      6.0,
			SpringConstant: 1.0,
			Cutoff:         1.2,
		},
	},
}
