package main

import "time"

// Preview window, probe and audio constants for the host.
const (
	screenW, screenH         = 512, 512
	windowScale              = 2
	defaultTPS               = 60.0
	probeRadius              = 3
	probeSpeed               = 0.25 // world units per tick
	probeFloatHeight         = 0.0  // probe y, compared against the water height
	minMeshResolution        = 4
	maxMeshResolution        = 1024
	heightColorRange         = 2.0
	audioSampleRate          = 48000
	audioPlayerBufferLatency = 80 * time.Millisecond
	surfGainSmoothing        = 0.02
	pcm16MaxValue            = 32767
	traceTickRate            = 60
	defaultTraceDuration     = 12 * time.Second
	traceChartWidth          = 64
	traceChartHeight         = 12
	traceLogInterval         = 0.5 // seconds between body log lines
)
