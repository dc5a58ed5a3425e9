// Package surface builds the water render mesh and deforms it every tick,
// either on an OpenCL device or on a pool of CPU workers, using the same
// packed wave parameters.
package surface

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrInvalidMesh is returned for non-positive sizes or resolutions.
	ErrInvalidMesh = errors.New("invalid mesh dimensions")
	// ErrNoMesh is returned when dispatching before a mesh was applied.
	ErrNoMesh = errors.New("no mesh applied")
	// ErrKernelMissing is returned when the deform kernel cannot be created.
	ErrKernelMissing = errors.New("deform kernel entry point missing")
	// ErrBackendUnavailable is returned when a deformer backend is not compiled in.
	ErrBackendUnavailable = errors.New("deformer backend unavailable")
)

// Resolution is the number of grid segments along x and z.
type Resolution struct {
	X, Y int
}

// Vertices returns the vertex counts along x and z.
func (r Resolution) Vertices() (int, int) { return r.X + 1, r.Y + 1 }

// Vertex is the device vertex layout: position, normal, uv.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh is a flat grid centred on the origin. Row 0 lies at +z/2.
type Mesh struct {
	Size       mgl64.Vec2
	Resolution Resolution
	Vertices   []Vertex
	Indices    []uint32
}

// BuildGrid allocates a (res.X+1)×(res.Y+1) vertex grid with two triangles
// per cell.
func BuildGrid(size mgl64.Vec2, res Resolution) (*Mesh, error) {
	if size.X() <= 0 || size.Y() <= 0 || res.X <= 0 || res.Y <= 0 {
		return nil, fmt.Errorf("%w: size %gx%g resolution %dx%d", ErrInvalidMesh, size.X(), size.Y(), res.X, res.Y)
	}
	cols, rows := res.Vertices()
	m := &Mesh{
		Size:       size,
		Resolution: res,
		Vertices:   make([]Vertex, cols*rows),
		Indices:    make([]uint32, res.X*res.Y*6),
	}

	halfW := size.X() / 2
	halfH := size.Y() / 2
	segW := size.X() / float64(res.X)
	segH := size.Y() / float64(res.Y)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.Vertices[y*cols+x] = Vertex{
				Position: mgl32.Vec3{float32(-halfW + float64(x)*segW), 0, float32(halfH - float64(y)*segH)},
				Normal:   mgl32.Vec3{0, 1, 0},
				UV:       mgl32.Vec2{float32(x) / float32(res.X), float32(y) / float32(res.Y)},
			}
		}
	}

	for y := 0; y < res.Y; y++ {
		for x := 0; x < res.X; x++ {
			i := (y*res.X + x) * 6
			row := uint32(y * cols)
			next := uint32((y + 1) * cols)
			ux := uint32(x)
			m.Indices[i+0] = row + ux + 1
			m.Indices[i+1] = next + ux
			m.Indices[i+2] = row + ux
			m.Indices[i+3] = next + ux + 1
			m.Indices[i+4] = next + ux
			m.Indices[i+5] = row + ux + 1
		}
	}
	return m, nil
}

// Floats flattens the vertices into the device layout.
func (m *Mesh) Floats() []float32 {
	out := make([]float32, len(m.Vertices)*VertexStride)
	packVertices(out, m.Vertices)
	return out
}

func packVertices(dst []float32, vertices []Vertex) {
	for i, v := range vertices {
		base := i * VertexStride
		copy(dst[base+PositionOffset:], v.Position[:])
		copy(dst[base+NormalOffset:], v.Normal[:])
		copy(dst[base+UVOffset:], v.UV[:])
	}
}

func unpackVertices(dst []Vertex, src []float32) {
	for i := range dst {
		base := i * VertexStride
		copy(dst[i].Position[:], src[base+PositionOffset:base+PositionOffset+3])
		copy(dst[i].Normal[:], src[base+NormalOffset:base+NormalOffset+3])
		copy(dst[i].UV[:], src[base+UVOffset:base+UVOffset+2])
	}
}

// Groups returns how many work groups of groupSize cover the vertex grid.
func Groups(res Resolution, groupSize int) (int, int) {
	if groupSize < 1 {
		groupSize = 1
	}
	cols, rows := res.Vertices()
	return (cols + groupSize - 1) / groupSize, (rows + groupSize - 1) / groupSize
}
