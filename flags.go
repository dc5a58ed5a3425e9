package main

import (
	"time"

	"github.com/spf13/pflag"

	"tidewater/internal/config"
)

// Command-line flags. Surface flags are bound to config keys by config.Load;
// the rest only affect the host.
var (
	// cfgFile is an optional yaml, toml or json configuration.
	cfgFile string

	// debugFlag enables the FPS, tide and mesh overlay and logs transitions.
	debugFlag bool

	// enableAudioFlag plays surf noise whose loudness follows the water at the probe.
	enableAudioFlag bool

	// surfLoopFlag replaces the generated noise with a looping WAV.
	surfLoopFlag string

	cpuProfileFlag string
	memProfileFlag string

	traceDurationFlag time.Duration
	traceProbeXFlag   float64
	traceProbeZFlag   float64

	printKernelFlag bool
)

// addSurfaceFlags registers the flags that override surface.* config keys.
func addSurfaceFlags(fs *pflag.FlagSet) {
	fs.String("backend", config.BackendOpenCL, "mesh deformer: opencl or cpu")
	fs.Int("workers", 0, "CPU deformer workers (0 uses one per CPU)")
	fs.Bool("verify-gpu", false, "read back every OpenCL dispatch and compare it with the CPU path")
}
