// Stride runs step-oriented particle simulations driven by a modular
// simulation algorithm.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/modsimlab/stride/checkpoint"
	"github.com/modsimlab/stride/config"
	"github.com/modsimlab/stride/datarecording"
	"github.com/modsimlab/stride/element"
	"github.com/modsimlab/stride/monitoring"
	"github.com/modsimlab/stride/orchestrator"
	"github.com/modsimlab/stride/sim"
	"github.com/modsimlab/stride/trajectory"
)

var (
	configPath string
	presetName string
	verbose    bool
	useMonitor bool
	useBrowser bool
)

var rootCmd = &cobra.Command{
	Use:   "stride",
	Short: "Stride runs step-oriented particle simulations.",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from a configuration file or preset.",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		return runSimulation(cfg)
	},
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to a YAML run configuration")
	runCmd.Flags().StringVarP(&presetName, "preset", "p", "",
		"name of a built-in configuration preset")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"print remaining-time estimates during the run")
	runCmd.Flags().BoolVar(&useMonitor, "monitor", false,
		"serve the web monitor during the run")
	runCmd.Flags().BoolVar(&useBrowser, "browser", false,
		"open the web monitor in the default browser")

	rootCmd.AddCommand(runCmd)
}

func main() {
	// A .env file can set defaults such as STRIDE_OUT; missing is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" && presetName != "" {
		return nil, fmt.Errorf("--config and --preset are exclusive")
	}

	if presetName != "" {
		cfg, ok := config.Presets[presetName]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", presetName)
		}

		return cfg, nil
	}

	if configPath != "" {
		return config.Load(configPath)
	}

	return config.DefaultConfig(), nil
}

func runSimulation(cfg *config.Config) error {
	if verbose {
		cfg.Run.Verbose = true
	}

	state := buildSystem(cfg)
	energy := element.NewEnergyData(state)

	outputPath := cfg.Run.OutputPath
	if outputPath == "" {
		outputPath = os.Getenv("STRIDE_OUT")
	}
	recorder := datarecording.New(outputPath)
	defer recorder.Close()

	builder := assembleRun(cfg, state, energy, recorder)

	algorithm := builder.Build()
	runner := orchestrator.NewRunner(algorithm)

	if useMonitor || cfg.Run.MonitorPort != 0 {
		startMonitor(cfg, runner, state, energy)
	}

	if err := runner.Run(); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	log.Printf("run complete, output tables: %v", recorder.ListTables())

	return nil
}

func assembleRun(
	cfg *config.Config,
	state *element.StateData,
	energy *element.EnergyData,
	recorder datarecording.DataRecorder,
) *orchestrator.Builder {
	force := element.NewForceElement(state, energy,
		element.HarmonicWellForce{
			SpringConstant: cfg.System.SpringConstant,
		}).
		WithPairListBuilder(&element.VerletList{Cutoff: cfg.System.Cutoff})

	propagator := element.NewPropagator("leapfrog", state, cfg.TimeStep)

	builder := orchestrator.NewBuilder(cfg.RunParams()).
		WithStateData(state).
		WithEnergyData(energy).
		AddElement(force).
		AddElement(energy.Element()).
		WithTrajectoryWriter(trajectory.NewWriter(recorder, state, energy)).
		WithStepTimingInserter(recorder).
		WithOSSignalHandling()

	if cfg.Thermostat.Enabled {
		builder.AddElement(element.NewVelocityScalingThermostat(
			energy,
			cfg.Thermostat.RefTemperature,
			cfg.Thermostat.Tau,
			sim.Step(cfg.Thermostat.Interval),
			cfg.TimeStep,
		))
	}

	if cfg.Barostat.Enabled {
		builder.AddElement(element.NewConstantPressureBarostat(
			energy,
			cfg.Barostat.RefPressure,
			cfg.Barostat.Tau,
			cfg.Barostat.Compressibility,
			sim.Step(cfg.Barostat.Interval),
			cfg.TimeStep,
		))
	}

	builder.AddElement(propagator)

	if cfg.FreeEnergy.Enabled {
		builder.WithFreeEnergy(element.NewFreeEnergyData(
			cfg.FreeEnergy.InitLambda, cfg.FreeEnergy.DeltaLambda))
	}

	if cfg.Run.CheckpointPath != "" {
		builder.WithCheckpointManager(
			checkpoint.NewManager(cfg.Run.CheckpointPath))

		if cfg.Run.Restart {
			builder.WithRestart()
		}
	}

	if cfg.Run.Verbose {
		builder.WithVerboseLog()
	}

	return builder
}

func startMonitor(
	cfg *config.Config,
	runner *orchestrator.Runner,
	state *element.StateData,
	energy *element.EnergyData,
) {
	monitor := monitoring.NewMonitor()

	if cfg.Run.MonitorPort != 0 {
		monitor.WithPortNumber(cfg.Run.MonitorPort)
	}

	if useBrowser {
		monitor.WithBrowserLaunch()
	}

	monitor.RegisterRun(runner)
	monitor.RegisterElement("state", state)
	monitor.RegisterElement("energy", energy)
	monitor.StartServer()
}

// buildSystem places the particles on a cubic lattice inside the box and
// draws initial velocities from a seeded uniform distribution.
func buildSystem(cfg *config.Config) *element.StateData {
	n := cfg.System.NumParticles
	side := 1
	for side*side*side < n {
		side++
	}
	spacing := cfg.System.BoxLength / float64(side)

	rng := rand.New(rand.NewSource(cfg.System.Seed))

	pos := make([]element.Vec3, n)
	vel := make([]element.Vec3, n)
	masses := make([]float64, n)

	for i := 0; i < n; i++ {
		pos[i] = element.Vec3{
			(float64(i%side) + 0.5) * spacing,
			(float64(i/side%side) + 0.5) * spacing,
			(float64(i/(side*side)) + 0.5) * spacing,
		}
		vel[i] = element.Vec3{
			rng.Float64() - 0.5,
			rng.Float64() - 0.5,
			rng.Float64() - 0.5,
		}
		masses[i] = 1.0
	}

	box := [3][3]float64{
		{cfg.System.BoxLength, 0, 0},
		{0, cfg.System.BoxLength, 0},
		{0, 0, cfg.System.BoxLength},
	}

	return element.NewStateData(pos, vel, masses, box)
}
