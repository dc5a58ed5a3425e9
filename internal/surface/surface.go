package surface

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Deformer writes heights and normals into the mesh vertex buffer.
type Deformer interface {
	// Name identifies the backend, e.g. a device name.
	Name() string
	// Resize reallocates the vertex buffer for a freshly built mesh.
	Resize(m *Mesh) error
	// Dispatch deforms the current vertex buffer. It must not block on the
	// result; gameplay never reads it back.
	Dispatch(p Params) error
	// Vertices copies the deformed vertices into dst, growing it as needed.
	// Only render-side previews call it.
	Vertices(dst []Vertex) ([]Vertex, error)
	Close()
}

// Surface owns the render mesh and rebuilds it only when its dimensions
// change.
type Surface struct {
	deformer Deformer
	mesh     *Mesh

	size     mgl64.Vec2
	res      Resolution
	rebuilds int
}

// New wraps a deformer. Apply must be called before Dispatch.
func New(d Deformer) *Surface {
	return &Surface{deformer: d}
}

// Apply builds the mesh for (size, res) unless the same pair is already in
// place. It reports whether a rebuild happened.
func (s *Surface) Apply(size mgl64.Vec2, res Resolution) (bool, error) {
	if s.mesh != nil && s.size == size && s.res == res {
		return false, nil
	}
	mesh, err := BuildGrid(size, res)
	if err != nil {
		return false, err
	}
	if err := s.deformer.Resize(mesh); err != nil {
		return false, fmt.Errorf("resizing %s vertex buffer: %w", s.deformer.Name(), err)
	}
	s.mesh = mesh
	s.size = size
	s.res = res
	s.rebuilds++
	return true, nil
}

// Dispatch forwards the tick's parameters to the deformer.
func (s *Surface) Dispatch(p Params) error {
	if s.mesh == nil {
		return ErrNoMesh
	}
	return s.deformer.Dispatch(p)
}

// Mesh returns the last applied mesh with its undeformed vertices.
func (s *Surface) Mesh() *Mesh { return s.mesh }

// Rebuilds counts how many meshes have been built.
func (s *Surface) Rebuilds() int { return s.rebuilds }

// Deformer returns the backend.
func (s *Surface) Deformer() Deformer { return s.deformer }

// Close releases the backend.
func (s *Surface) Close() {
	if s.deformer != nil {
		s.deformer.Close()
	}
}
