// Package wave evaluates the analytic water height field: a sum of sinusoidal
// swell components plus a single shaped surge wave whose phase is driven by
// tidal progress.
package wave

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MinSlopeBase keeps the surge slope finite at the crest when steepness < 1.
const MinSlopeBase = 1e-6

// Component describes one ambient swell.
type Component struct {
	Frequency float64
	Amplitude float64
	Speed     float64
	Direction mgl64.Vec2
	Steepness float64
	Active    bool
}

// Surge describes the tidal wave that sweeps the field. Direction points from
// the dry side toward the sea; a rising tide moves the front against it.
type Surge struct {
	Wavelength float64
	Steepness  float64
	Direction  mgl64.Vec2
	Height     float64
}

// Field is an immutable wave configuration. All evaluation methods are pure.
type Field struct {
	components []Component
	surge      Surge
}

// NewField copies the components and normalises all directions.
func NewField(components []Component, surge Surge) *Field {
	f := &Field{components: make([]Component, 0, len(components))}
	for _, c := range components {
		c.Direction = unit(c.Direction)
		f.components = append(f.components, c)
	}
	surge.Direction = unit(surge.Direction)
	f.surge = surge
	return f
}

// Direction converts an angle in degrees to a unit vector.
func Direction(angleDeg float64) mgl64.Vec2 {
	rad := mgl64.DegToRad(angleDeg)
	return mgl64.Vec2{math.Cos(rad), math.Sin(rad)}
}

// Components returns a copy of the configured components.
func (f *Field) Components() []Component {
	out := make([]Component, len(f.components))
	copy(out, f.components)
	return out
}

// Surge returns the surge parameters.
func (f *Field) Surge() Surge { return f.surge }

// Height returns the water height at pos for simulation time t and tidal
// progress.
func (f *Field) Height(pos mgl64.Vec2, t, progress float64) float64 {
	var height float64
	for _, c := range f.components {
		if !c.Active {
			continue
		}
		height += c.Amplitude * math.Sin(pos.Dot(c.Direction)*c.Frequency+t*c.Speed)
	}
	return height + f.surgeHeight(pos, progress)
}

// surgeHeight is the steepness-shaped pulse of the surge wave.
func (f *Field) surgeHeight(pos mgl64.Vec2, progress float64) float64 {
	s := f.surge
	if s.Wavelength == 0 || s.Height == 0 {
		return 0
	}
	v := math.Sin(f.surgePhase(pos, progress))
	shaped := (1 - math.Pow(1-math.Abs(v), s.Steepness)) * sign(v)
	return (shaped + 1) * 0.5 * s.Height
}

func (f *Field) surgePhase(pos mgl64.Vec2, progress float64) float64 {
	return pos.Dot(f.surge.Direction)*2*math.Pi/f.surge.Wavelength + (progress-0.5)*math.Pi
}

// FrontOffset returns the signed distance, measured along the surge
// direction, from the origin to the front line at the given progress. The
// front is the rising zero crossing of the principal surge period: it starts
// a quarter wavelength seaward and ends a quarter wavelength landward.
func (f *Field) FrontOffset(progress float64) float64 {
	return f.surge.Wavelength * (0.5 - progress) / 2
}

// WaveFront returns the vector from pos to the nearest point on the surge
// front line. The front is straight and perpendicular to the surge
// direction, so the length of the result is the exact distance to it. A
// degenerate surge yields the zero vector.
func (f *Field) WaveFront(pos mgl64.Vec2, _ float64, progress float64) mgl64.Vec2 {
	dir := f.surge.Direction
	if f.surge.Wavelength == 0 || dir.Len() == 0 {
		return mgl64.Vec2{}
	}
	return dir.Mul(f.FrontOffset(progress) - pos.Dot(dir))
}

// Gradient returns the partial derivatives of Height along x and z.
func (f *Field) Gradient(pos mgl64.Vec2, t, progress float64) mgl64.Vec2 {
	var grad mgl64.Vec2
	for _, c := range f.components {
		if !c.Active {
			continue
		}
		d := c.Amplitude * c.Frequency * math.Cos(pos.Dot(c.Direction)*c.Frequency+t*c.Speed)
		grad = grad.Add(c.Direction.Mul(d))
	}
	s := f.surge
	if s.Wavelength == 0 || s.Height == 0 || s.Steepness == 0 {
		return grad
	}
	phase := f.surgePhase(pos, progress)
	v := math.Sin(phase)
	base := math.Max(1-math.Abs(v), MinSlopeBase)
	slope := 0.5 * s.Height * s.Steepness * math.Pow(base, s.Steepness-1)
	d := slope * math.Cos(phase) * 2 * math.Pi / s.Wavelength
	return grad.Add(s.Direction.Mul(d))
}

// Normal returns the unit surface normal (y up) at pos. normalScale
// exaggerates or flattens the slope before normalisation.
func (f *Field) Normal(pos mgl64.Vec2, t, progress, normalScale float64) mgl64.Vec3 {
	g := f.Gradient(pos, t, progress).Mul(normalScale)
	return mgl64.Vec3{-g.X(), 1, -g.Y()}.Normalize()
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func unit(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec2{}
	}
	return v.Mul(1 / l)
}
