package actors

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Rider is carried on the surge front at a fixed offset along the wave
// direction until it reaches its drop target.
type Rider struct {
	offset   float64
	target   mgl64.Vec2
	hasDrop  bool
	attached bool
}

// NewRider picks an offset in [-maxOffset, maxOffset].
func NewRider(maxOffset float64, rng *rand.Rand) *Rider {
	return &Rider{offset: (rng.Float64()*2 - 1) * maxOffset, attached: true}
}

// Offset is the distance kept from the front, seaward when positive.
func (r *Rider) Offset() float64 { return r.offset }

// Attached reports whether the rider still follows the wave.
func (r *Rider) Attached() bool { return r.attached }

// DropAt makes the rider let go once it has travelled past target.
func (r *Rider) DropAt(target mgl64.Vec2) {
	r.target = target
	r.hasDrop = true
}

// Step moves pos onto the front and returns the new position. A detached
// rider stays where it is.
func (r *Rider) Step(w Fronts, pos mgl64.Vec2) mgl64.Vec2 {
	if !r.attached {
		return pos
	}
	dir := w.WaveDirection()
	pos = pos.Add(w.VectorToWaveFront(pos)).Add(dir.Mul(r.offset))
	if r.hasDrop && dir.Dot(pos.Sub(r.target)) <= 0 {
		r.attached = false
	}
	return pos
}
