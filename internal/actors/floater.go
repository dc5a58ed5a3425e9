package actors

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	WaterDensity = 1000.0 // kg/m³
	Gravity      = 9.81
)

// Box is an axis aligned bounding box.
type Box struct {
	Center  mgl64.Vec3
	Extents mgl64.Vec3 // half size
}

func (b Box) Size() mgl64.Vec3 { return b.Extents.Mul(2) }
func (b Box) Min() mgl64.Vec3  { return b.Center.Sub(b.Extents) }

// Floater turns water heights under a box into a buoyant force.
type Floater struct {
	Volume       float64 // mesh volume in m³
	Occupancy    float64 // share of the box the body really fills, 0..1
	MaxOffCenter float64 // how far the force may move from the box centre, 0..1

	Drag, AngularDrag                 float64 // when dry
	FloatingDrag, FloatingAngularDrag float64 // when fully submerged
}

// NewFloater returns a floater with the usual tuning for a box of the given
// volume.
func NewFloater(volume float64) Floater {
	return Floater{
		Volume:              volume,
		Occupancy:           0.5,
		MaxOffCenter:        1,
		FloatingDrag:        5,
		FloatingAngularDrag: 10,
	}
}

// Buoyancy is the result of one evaluation.
type Buoyancy struct {
	Force        float64    // upward, in newtons
	Point        mgl64.Vec3 // where to apply it
	WaterLevel   float64    // mean height at the four corners
	Displacement float64    // mean submersion, 0..1
	Drag         float64
	AngularDrag  float64
}

// Evaluate samples the four bottom corners of b.
func (f Floater) Evaluate(w Heights, b Box) Buoyancy {
	size := b.Size()
	corner := func(sx, sz float64) (height, displaced float64) {
		p := b.Center.Add(mgl64.Vec3{sx * b.Extents.X(), -b.Extents.Y(), sz * b.Extents.Z()})
		height = w.HeightAt(xz(p))
		return height, saturate((height - b.Center.Y()) / size.Y())
	}
	hFR, dFR := corner(1, 1)
	hFL, dFL := corner(-1, 1)
	hBR, dBR := corner(1, -1)
	hBL, dBL := corner(-1, -1)

	total := dFR + dFL + dBR + dBL
	avg := total / 4
	peak := math.Max(math.Max(dBR, dBL), math.Max(dFR, dFL))

	var cx, cz float64
	if total > 0 {
		cx = (dBR + dFR) / total
		cz = (dFL + dFR) / total
	}
	cx = lerp(0.5, cx, f.MaxOffCenter)
	cz = lerp(0.5, cz, f.MaxOffCenter)

	lo := b.Min()
	return Buoyancy{
		Force:        WaterDensity * f.Volume * f.Occupancy * avg * Gravity,
		Point:        lo.Add(mgl64.Vec3{cx * size.X(), 0.5 * size.Y(), cz * size.Z()}),
		WaterLevel:   (hFR + hFL + hBR + hBL) / 4,
		Displacement: avg,
		Drag:         lerp(f.Drag, f.FloatingDrag, peak),
		AngularDrag:  lerp(f.AngularDrag, f.FloatingAngularDrag, avg),
	}
}
