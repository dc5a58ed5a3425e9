package actors

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Sweep drags submerged bodies along behind a moving front.
type Sweep struct {
	Strength float64
}

// Push returns the horizontal force on a body at pos. It is zero unless the
// tide is moving, the body is under water and the front has already passed
// it.
func (s Sweep) Push(w Fronts, pos mgl64.Vec3) mgl64.Vec2 {
	if !w.State().Moving() {
		return mgl64.Vec2{}
	}
	p := xz(pos)
	if pos.Y() > w.HeightAt(p) {
		return mgl64.Vec2{}
	}
	front := w.VectorToWaveFront(p)
	if front.Dot(w.WaveDirection()) >= 0 {
		return mgl64.Vec2{}
	}
	return front.Normalize().Mul(s.Strength)
}
