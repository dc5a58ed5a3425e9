//go:build opencl

package surface

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jgillich/go-opencl/cl"
)

// OpenCLAvailable reports whether the OpenCL deformer is compiled in.
const OpenCLAvailable = true

// OpenCLDeformer recomputes the wave field per vertex on an OpenCL device.
type OpenCLDeformer struct {
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	kernel  *cl.Kernel

	vertexBuf *cl.MemObject
	waveBuf   *cl.MemObject
	waveCap   int // entries allocated in waveBuf
	waves     []float32

	cols, rows int
	host       []float32
	deviceName string

	verify        bool
	verifyScratch []Vertex
}

// NewOpenCLDeformer picks the first GPU device, falling back to a CPU device,
// and builds the deform kernel. verify enables a blocking readback after each
// dispatch that compares the device result with the CPU evaluation.
func NewOpenCLDeformer(verify bool) (*OpenCLDeformer, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	device := pickDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = pickDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	d := &OpenCLDeformer{deviceName: device.Name(), verify: verify}
	if d.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if d.queue, err = d.context.CreateCommandQueue(device, 0); err != nil {
		d.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if d.program, err = d.context.CreateProgramWithSource([]string{KernelSource()}); err != nil {
		d.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := d.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		d.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if d.kernel, err = d.program.CreateKernel(kernelEntryPoint); err != nil {
		d.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrKernelMissing, kernelEntryPoint, err)
	}
	return d, nil
}

func pickDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

// Name returns the device name.
func (d *OpenCLDeformer) Name() string { return "opencl (" + d.deviceName + ")" }

// Resize replaces the device vertex buffer with the new mesh.
func (d *OpenCLDeformer) Resize(m *Mesh) error {
	if d.vertexBuf != nil {
		if err := d.queue.Finish(); err != nil {
			return fmt.Errorf("draining queue: %w", err)
		}
		d.vertexBuf.Release()
		d.vertexBuf = nil
	}
	d.cols, d.rows = m.Resolution.Vertices()
	d.host = m.Floats()
	buf, err := d.context.CreateEmptyBuffer(cl.MemReadWrite, len(d.host)*4)
	if err != nil {
		return fmt.Errorf("allocating vertex buffer: %w", err)
	}
	d.vertexBuf = buf
	ev, err := d.queue.EnqueueWriteBufferFloat32(d.vertexBuf, true, 0, d.host, nil)
	if err != nil {
		return fmt.Errorf("writing vertex buffer: %w", err)
	}
	releaseEvent(ev)
	if err := d.kernel.SetArgBuffer(argVertices, d.vertexBuf); err != nil {
		return fmt.Errorf("binding vertex buffer: %w", err)
	}
	if err := d.kernel.SetArgInt32(argCols, int32(d.cols)); err != nil {
		return fmt.Errorf("setting column count: %w", err)
	}
	if err := d.kernel.SetArgInt32(argRows, int32(d.rows)); err != nil {
		return fmt.Errorf("setting row count: %w", err)
	}
	return nil
}

// ensureWaves uploads the packed components when they differ from the last
// upload, growing the device buffer if needed.
func (d *OpenCLDeformer) ensureWaves(p Params) error {
	if d.waveBuf != nil && p.WaveCount <= d.waveCap && slices.Equal(d.waves, p.Waves) {
		return nil
	}
	if d.waveBuf == nil || p.WaveCount > d.waveCap {
		if d.waveBuf != nil {
			d.waveBuf.Release()
			d.waveBuf = nil
		}
		buf, err := d.context.CreateEmptyBuffer(cl.MemReadOnly, p.WaveCount*WaveStride*4)
		if err != nil {
			return fmt.Errorf("allocating wave buffer: %w", err)
		}
		d.waveBuf = buf
		d.waveCap = p.WaveCount
		if err := d.kernel.SetArgBuffer(argWaves, d.waveBuf); err != nil {
			return fmt.Errorf("binding wave buffer: %w", err)
		}
	}
	d.waves = append(d.waves[:0], p.Waves...)
	ev, err := d.queue.EnqueueWriteBufferFloat32(d.waveBuf, true, 0, d.waves, nil)
	if err != nil {
		return fmt.Errorf("writing wave buffer: %w", err)
	}
	releaseEvent(ev)
	return d.kernel.SetArgInt32(argWaveCount, int32(p.WaveCount))
}

// Dispatch enqueues the deform kernel without waiting for it.
func (d *OpenCLDeformer) Dispatch(p Params) error {
	if d.vertexBuf == nil {
		return ErrNoMesh
	}
	if err := d.ensureWaves(p); err != nil {
		return err
	}
	scalars := []struct {
		index int
		value float32
	}{
		{argTime, p.Time},
		{argProgress, p.Progress},
		{argSurgeWavelength, p.SurgeWavelength},
		{argSurgeSteepness, p.SurgeSteepness},
		{argSurgeDirX, p.SurgeDirX},
		{argSurgeDirY, p.SurgeDirY},
		{argSurgeHeight, p.SurgeHeight},
		{argNormalScale, p.NormalScale},
	}
	for _, s := range scalars {
		if err := d.kernel.SetArgFloat32(s.index, s.value); err != nil {
			return fmt.Errorf("setting kernel argument %d: %w", s.index, err)
		}
	}
	gx, gy := Groups(Resolution{X: d.cols - 1, Y: d.rows - 1}, GroupSize)
	global := []int{gx * GroupSize, gy * GroupSize}
	local := []int{GroupSize, GroupSize}
	ev, err := d.queue.EnqueueNDRangeKernel(d.kernel, nil, global, local, nil)
	if err != nil {
		return fmt.Errorf("enqueueing deform kernel: %w", err)
	}
	releaseEvent(ev)
	if err := d.queue.Flush(); err != nil {
		return fmt.Errorf("flushing queue: %w", err)
	}
	if d.verify {
		return d.verifyAgainstCPU(p)
	}
	return nil
}

// Vertices reads the vertex buffer back, blocking until pending dispatches finish.
func (d *OpenCLDeformer) Vertices(dst []Vertex) ([]Vertex, error) {
	if d.vertexBuf == nil {
		return dst[:0], ErrNoMesh
	}
	ev, err := d.queue.EnqueueReadBufferFloat32(d.vertexBuf, true, 0, d.host, nil)
	if err != nil {
		return dst[:0], fmt.Errorf("reading vertex buffer: %w", err)
	}
	releaseEvent(ev)
	n := len(d.host) / VertexStride
	if cap(dst) < n {
		dst = make([]Vertex, n)
	}
	dst = dst[:n]
	unpackVertices(dst, d.host)
	return dst, nil
}

func (d *OpenCLDeformer) verifyAgainstCPU(p Params) error {
	got, err := d.Vertices(d.verifyScratch)
	if err != nil {
		return err
	}
	d.verifyScratch = got
	return checkVertices(got, p, verifyTolerance)
}

// Close releases device objects in reverse creation order.
func (d *OpenCLDeformer) Close() {
	if d.queue != nil {
		_ = d.queue.Finish()
	}
	if d.waveBuf != nil {
		d.waveBuf.Release()
		d.waveBuf = nil
	}
	if d.vertexBuf != nil {
		d.vertexBuf.Release()
		d.vertexBuf = nil
	}
	if d.kernel != nil {
		d.kernel.Release()
		d.kernel = nil
	}
	if d.program != nil {
		d.program.Release()
		d.program = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.context != nil {
		d.context.Release()
		d.context = nil
	}
}

func releaseEvent(ev *cl.Event) {
	if ev != nil {
		ev.Release()
	}
}
