package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"tidewater/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "tidewater",
	Short: "Tidal water surface simulation",
	Long: `Simulates an analytic water surface with a recurring tidal surge and
keeps a deformable render mesh in sync with it, on an OpenCL device or on
CPU workers.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the top-down preview window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		stop, err := startProfiles(cpuProfileFlag, memProfileFlag)
		if err != nil {
			return fmt.Errorf("starting profiles: %w", err)
		}
		defer stop()

		g := newGame(cfg)
		defer g.Close()
		ebiten.SetWindowSize(screenW*windowScale, screenH*windowScale)
		ebiten.SetWindowTitle("Tidewater")
		ebiten.SetTPS(int(defaultTPS))
		return ebiten.RunGame(g)
	},
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Run the simulation headless and chart the height at a probe",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		e, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		defer e.Close()
		probe := probePoint(traceProbeXFlag, traceProbeZFlag)
		tr := runTrace(e, traceDurationFlag, probe, traceTickRate)
		return renderTrace(cmd.OutOrStdout(), tr)
	},
}

var meshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Print the render mesh and device buffer layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return printMeshStats(cmd.OutOrStdout(), cfg, printKernelFlag)
	},
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	addSurfaceFlags(rootCmd.PersistentFlags())

	runCmd.Flags().BoolVar(&debugFlag, "debug", false, "show FPS, tide and mesh overlay")
	runCmd.Flags().BoolVar(&enableAudioFlag, "enable-audio", false, "play surf noise driven by the water at the probe")
	runCmd.Flags().StringVar(&surfLoopFlag, "surf-loop", "", "WAV file to loop instead of generated noise")
	runCmd.Flags().StringVar(&cpuProfileFlag, "cpuprofile", "", "write a CPU profile to this file")
	runCmd.Flags().StringVar(&memProfileFlag, "memprofile", "", "write a heap profile to this file on exit")

	traceCmd.Flags().DurationVar(&traceDurationFlag, "duration", defaultTraceDuration, "simulated time to run")
	traceCmd.Flags().Float64Var(&traceProbeXFlag, "probe-x", 0, "probe x position")
	traceCmd.Flags().Float64Var(&traceProbeZFlag, "probe-z", 0, "probe z position")

	meshCmd.Flags().BoolVar(&printKernelFlag, "kernel", false, "also print the generated OpenCL source")

	rootCmd.AddCommand(runCmd, traceCmd, meshCmd)
}

// loadConfig layers the config file, environment and flags and validates
// the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfgFile != "" {
		log.Printf("Using config file: %s", cfgFile)
	}
	return cfg, nil
}
