package main

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"tidewater/internal/actors"
	"tidewater/internal/engine"
	"tidewater/internal/tide"
)

// Bodies placed around the probe during a trace.
const (
	castSeed          = 1
	castSpawnCount    = 8
	castSpawnMinDepth = 0.5
	castGroundOffset  = 0.2
	castBeachSlope    = 0.1 // floor drop per world unit seaward
	castRiderOffset   = 1.0
	castSweepStrength = 4.0
	castBoxExtent     = 0.5
)

// cast drives the gameplay actors against a live engine. A floating box and
// a swimmer sit at the probe. Every surge launches a rider that lets go at
// the probe and opens a spawn round.
type cast struct {
	probe mgl64.Vec2
	rng   *rand.Rand

	floater actors.Floater
	box     actors.Box
	sweep   actors.Sweep
	swimmer *actors.Swimmer
	swimPos mgl64.Vec3

	rider    *actors.Rider
	riderPos mgl64.Vec2

	spawner *actors.Spawner
}

// castStep is what the actors did during one tick.
type castStep struct {
	Buoyancy actors.Buoyancy
	Push     mgl64.Vec2
	Steering actors.Steering
	Rider    mgl64.Vec2
	Riding   bool
	Dropped  bool // the rider let go during this tick
	Rounds   []actors.Round
}

func newCast(e *engine.Engine, probe mgl64.Vec2) *cast {
	size := e.Surface().Mesh().Size
	c := &cast{
		probe:   probe,
		rng:     rand.New(rand.NewSource(castSeed)),
		floater: actors.NewFloater(8 * castBoxExtent * castBoxExtent * castBoxExtent),
		box: actors.Box{
			Center:  mgl64.Vec3{probe.X(), probeFloatHeight, probe.Y()},
			Extents: mgl64.Vec3{castBoxExtent, castBoxExtent, castBoxExtent},
		},
		sweep: actors.Sweep{Strength: castSweepStrength},
	}
	// the swimmer hovers just above the floor under the probe
	c.swimPos = mgl64.Vec3{probe.X(), c.ground(e) + castGroundOffset, probe.Y()}
	c.spawner = actors.NewSpawner(actors.SpawnConfig{
		Count:        castSpawnCount,
		Area:         actors.Rect{Min: size.Mul(-0.5), Max: size.Mul(0.5)},
		MinDepth:     castSpawnMinDepth,
		GroundOffset: castGroundOffset,
		Ground:       beachGround(e.WaveDirection()),
	}, c.rng)
	c.swimmer = actors.NewSwimmer(actors.DefaultSwimmer(), castSeed, e, c.swimPos, c.ground(e))
	return c
}

// beachGround is a floor that deepens seaward along dir.
func beachGround(dir mgl64.Vec2) func(mgl64.Vec2) float64 {
	return func(xz mgl64.Vec2) float64 { return -castBeachSlope * xz.Dot(dir) }
}

func (c *cast) ground(e *engine.Engine) float64 {
	return beachGround(e.WaveDirection())(c.probe)
}

// step runs every actor once after e has ticked and emitted events.
func (c *cast) step(e *engine.Engine, dt float64, events []tide.Event) castStep {
	var out castStep
	out.Rounds = c.spawner.Observe(events, e)
	for _, ev := range events {
		if ev.NewWave() {
			c.rider = actors.NewRider(castRiderOffset, c.rng)
			c.rider.DropAt(c.probe)
			c.riderPos = c.probe
		}
	}
	if c.rider != nil && c.rider.Attached() && e.State().Moving() {
		c.riderPos = c.rider.Step(e, c.riderPos)
		out.Dropped = !c.rider.Attached()
	}
	out.Rider = c.riderPos
	out.Riding = c.rider != nil && c.rider.Attached()

	out.Buoyancy = c.floater.Evaluate(e, c.box)
	out.Push = c.sweep.Push(e, c.swimPos)
	out.Steering = c.swimmer.Tick(dt, e.Time(), e, c.swimPos, c.ground(e))
	return out
}
