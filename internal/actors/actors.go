// Package actors contains the gameplay consumers of the water engine:
// floating bodies, swimming creatures, objects carried by the surge, spawn
// rounds and underwater transitions. Each one depends only on the narrow
// slice of the engine it reads, so tests can feed them a fake sea.
package actors

import (
	"github.com/go-gl/mathgl/mgl64"

	"tidewater/internal/tide"
)

// Heights samples the water surface.
type Heights interface {
	HeightAt(xz mgl64.Vec2) float64
}

// Fronts adds the surge front queries.
type Fronts interface {
	Heights
	VectorToWaveFront(xz mgl64.Vec2) mgl64.Vec2
	WaveDirection() mgl64.Vec2
	State() tide.State
}

func xz(p mgl64.Vec3) mgl64.Vec2 { return mgl64.Vec2{p.X(), p.Z()} }

func saturate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
