package main

import (
	"errors"
	"fmt"
	"log"

	"tidewater/internal/config"
	"tidewater/internal/engine"
	"tidewater/internal/surface"
)

// newDeformer picks the mesh backend. A build without OpenCL falls back to
// CPU workers; a device that fails to initialise is an error.
func newDeformer(cfg config.Config) (surface.Deformer, error) {
	if cfg.Surface.Backend == config.BackendCPU {
		return surface.NewCPUDeformer(cfg.Surface.Workers), nil
	}
	d, err := surface.NewOpenCLDeformer(cfg.Surface.Verify)
	if errors.Is(err, surface.ErrBackendUnavailable) {
		log.Printf("OpenCL not compiled in, deforming on CPU workers")
		return surface.NewCPUDeformer(cfg.Surface.Workers), nil
	}
	if err != nil {
		return nil, fmt.Errorf("OpenCL initialization failed: %w", err)
	}
	return d, nil
}

// buildEngine creates the deformer and the engine that owns it.
func buildEngine(cfg config.Config) (*engine.Engine, error) {
	d, err := newDeformer(cfg)
	if err != nil {
		return nil, err
	}
	e, err := engine.New(cfg, d)
	if err != nil {
		d.Close()
		return nil, err
	}
	res := cfg.MeshResolution()
	log.Printf("Water surface ready (deformer: %s, mesh %dx%d)", d.Name(), res.X, res.Y)
	return e, nil
}
