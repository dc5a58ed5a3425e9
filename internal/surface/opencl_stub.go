//go:build !opencl

package surface

import "fmt"

// OpenCLAvailable reports whether the OpenCL deformer is compiled in.
const OpenCLAvailable = false

// OpenCLDeformer is unavailable without the opencl build tag.
type OpenCLDeformer struct{}

func NewOpenCLDeformer(bool) (*OpenCLDeformer, error) {
	return nil, fmt.Errorf("%w: OpenCL support is not enabled; rebuild with -tags opencl", ErrBackendUnavailable)
}

func (d *OpenCLDeformer) Name() string { return "opencl (unavailable)" }

func (d *OpenCLDeformer) Resize(*Mesh) error { return ErrBackendUnavailable }

func (d *OpenCLDeformer) Dispatch(Params) error { return ErrBackendUnavailable }

func (d *OpenCLDeformer) Vertices(dst []Vertex) ([]Vertex, error) {
	return dst[:0], ErrBackendUnavailable
}

func (d *OpenCLDeformer) Close() {}
