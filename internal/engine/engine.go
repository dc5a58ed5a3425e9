// Package engine owns one water surface instance: the wave field, the tidal
// cycle driving its surge and the deformable render surface. The host ticks
// it once per frame; gameplay code only reads from it.
//
// Engine is not safe for concurrent use. Queries are expected on the same
// goroutine as Tick.
package engine

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"tidewater/internal/config"
	"tidewater/internal/surface"
	"tidewater/internal/tide"
	"tidewater/internal/wave"
)

// Engine is the query surface for everything that needs water heights.
type Engine struct {
	field   *wave.Field
	cycle   *tide.Cycle
	surface *surface.Surface
	params  surface.Params

	enabled  bool
	time     float64
	state    tide.State
	progress float64

	dispatches     int
	dispatchErrors int
}

// New validates cfg, builds the mesh and binds it to deformer. The engine
// takes ownership of deformer and closes it in Close; on error the caller
// keeps it.
func New(cfg config.Config, deformer surface.Deformer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid water configuration: %w", err)
	}
	field := cfg.Field()
	e := &Engine{
		field:   field,
		cycle:   tide.NewCycle(cfg.Durations()),
		surface: surface.New(deformer),
		params:  surface.Pack(field, cfg.Surface.NormalScale),
		enabled: true,
	}
	if _, err := e.surface.Apply(cfg.MeshSize(), cfg.MeshResolution()); err != nil {
		return nil, fmt.Errorf("building water mesh: %w", err)
	}
	return e, nil
}

// Tick advances the tide by dt seconds, snapshots the surge progress and
// dispatches the surface deformer. The returned events are the transitions
// that happened during this tick. A dispatch error leaves the simulation
// advanced; only the rendered mesh is stale.
func (e *Engine) Tick(dt float64) ([]tide.Event, error) {
	if !e.enabled {
		return nil, nil
	}
	if !(dt > 0) || math.IsInf(dt, 1) {
		dt = 0
	}
	e.time += dt
	e.state, e.progress = e.cycle.Advance(dt)
	events := e.cycle.Drain()

	e.dispatches++
	if err := e.surface.Dispatch(e.params.At(e.fieldTime(), e.progress)); err != nil {
		e.dispatchErrors++
		return events, fmt.Errorf("dispatching %s: %w", e.surface.Deformer().Name(), err)
	}
	return events, nil
}

// fieldTime is the clock the wave field is evaluated at, wrapped the same way
// for queries and for the deformer.
func (e *Engine) fieldTime() float64 { return surface.WrapTime(e.time) }

// HeightAt returns the water height at a world xz position.
func (e *Engine) HeightAt(xz mgl64.Vec2) float64 {
	return e.field.Height(xz, e.fieldTime(), e.progress)
}

// NormalAt returns the surface normal at a world xz position.
func (e *Engine) NormalAt(xz mgl64.Vec2) mgl64.Vec3 {
	return e.field.Normal(xz, e.fieldTime(), e.progress, float64(e.params.NormalScale))
}

// VectorToWaveFront returns the offset from xz to the surge front. It is
// meaningful while the tide is Rising or Falling.
func (e *Engine) VectorToWaveFront(xz mgl64.Vec2) mgl64.Vec2 {
	return e.field.WaveFront(xz, e.fieldTime(), e.progress)
}

// WaveDirection is the unit surge direction, pointing seaward.
func (e *Engine) WaveDirection() mgl64.Vec2 { return e.field.Surge().Direction }

func (e *Engine) State() tide.State { return e.state }
func (e *Engine) Progress() float64 { return e.progress }
// Time is the total simulated time. Waves are evaluated at
// surface.WrapTime(Time()).
func (e *Engine) Time() float64 { return e.time }

// Waves counts the surges started so far.
func (e *Engine) Waves() int { return e.cycle.Waves() }

// SetEnabled pauses or resumes ticking. A paused engine keeps answering
// queries with its last snapshot.
func (e *Engine) SetEnabled(enabled bool) {
	e.enabled = enabled
	e.cycle.SetEnabled(enabled)
}

func (e *Engine) Enabled() bool { return e.enabled }

// ApplyMesh resizes the render surface. Repeating the current pair is free.
func (e *Engine) ApplyMesh(size mgl64.Vec2, res surface.Resolution) (bool, error) {
	return e.surface.Apply(size, res)
}

// Surface exposes the render surface for previews.
func (e *Engine) Surface() *surface.Surface { return e.surface }

// Field returns the immutable wave configuration.
func (e *Engine) Field() *wave.Field { return e.field }

// Stats reports how many dispatches were issued and how many failed.
func (e *Engine) Stats() (dispatches, failures int) { return e.dispatches, e.dispatchErrors }

// Close releases the deformer.
func (e *Engine) Close() { e.surface.Close() }
