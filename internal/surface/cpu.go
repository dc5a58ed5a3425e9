package surface

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"tidewater/internal/wave"
)

// CPUDeformer evaluates the wave field per vertex on a fixed pool of worker
// goroutines. Rows are assigned round-robin and every Dispatch is a barrier:
// it returns once all workers finished the tick.
type CPUDeformer struct {
	workerCount int

	mu      sync.Mutex
	cond    *sync.Cond
	step    int
	pending int
	started bool
	closed  bool

	cols, rows  int
	vertices    []Vertex
	assignments [][]int

	// job is written by Dispatch before the barrier opens.
	job struct {
		field       *wave.Field
		time        float64
		progress    float64
		normalScale float64
	}
}

// NewCPUDeformer returns a deformer using workers goroutines, or one per CPU
// when workers < 1.
func NewCPUDeformer(workers int) *CPUDeformer {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	d := &CPUDeformer{workerCount: workers}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Name reports the backend and its worker count.
func (d *CPUDeformer) Name() string {
	return fmt.Sprintf("cpu (%d workers)", d.workerCount)
}

// Resize copies the mesh vertices and redistributes rows across workers.
func (d *CPUDeformer) Resize(m *Mesh) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("cpu deformer closed")
	}
	d.cols, d.rows = m.Resolution.Vertices()
	d.vertices = make([]Vertex, len(m.Vertices))
	copy(d.vertices, m.Vertices)
	d.assignments = assignRows(d.workerCount, d.rows)
	return nil
}

// Dispatch deforms every vertex and waits for the workers.
func (d *CPUDeformer) Dispatch(p Params) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return fmt.Errorf("cpu deformer closed")
	}
	if d.vertices == nil {
		d.mu.Unlock()
		return ErrNoMesh
	}
	d.startWorkers()
	d.job.field = p.Field()
	d.job.time = float64(p.Time)
	d.job.progress = float64(p.Progress)
	d.job.normalScale = float64(p.NormalScale)
	d.pending = d.workerCount
	d.step++
	d.cond.Broadcast()
	for d.pending > 0 {
		d.cond.Wait()
	}
	d.mu.Unlock()
	return nil
}

// Vertices copies the deformed vertices.
func (d *CPUDeformer) Vertices(dst []Vertex) ([]Vertex, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vertices == nil {
		return dst[:0], ErrNoMesh
	}
	if cap(dst) < len(d.vertices) {
		dst = make([]Vertex, len(d.vertices))
	}
	dst = dst[:len(d.vertices)]
	copy(dst, d.vertices)
	return dst, nil
}

// Close stops the workers.
func (d *CPUDeformer) Close() {
	d.mu.Lock()
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()
}

// startWorkers launches the pool on first dispatch. Callers hold d.mu.
func (d *CPUDeformer) startWorkers() {
	if d.started {
		return
	}
	d.started = true
	for i := 0; i < d.workerCount; i++ {
		go d.workerLoop(i)
	}
}

func (d *CPUDeformer) workerLoop(index int) {
	lastStep := 0
	d.mu.Lock()
	for {
		for d.step == lastStep && !d.closed {
			d.cond.Wait()
		}
		if d.closed {
			d.mu.Unlock()
			return
		}
		lastStep = d.step
		var rows []int
		if index < len(d.assignments) {
			rows = d.assignments[index]
		}
		job := d.job
		d.mu.Unlock()

		for _, y := range rows {
			deformRow(d.vertices[y*d.cols:(y+1)*d.cols], job.field, job.time, job.progress, job.normalScale)
		}

		d.mu.Lock()
		d.pending--
		if d.pending == 0 {
			d.cond.Broadcast()
		}
	}
}

// deformRow writes height and normal for one row of vertices.
func deformRow(row []Vertex, f *wave.Field, t, progress, normalScale float64) {
	for i := range row {
		v := &row[i]
		pos := mgl64.Vec2{float64(v.Position.X()), float64(v.Position.Z())}
		v.Position[1] = float32(f.Height(pos, t, progress))
		n := f.Normal(pos, t, progress, normalScale)
		v.Normal = mgl32.Vec3{float32(n.X()), float32(n.Y()), float32(n.Z())}
	}
}

// assignRows distributes vertex rows across workers in round robin fashion.
func assignRows(workerCount, rows int) [][]int {
	if workerCount < 1 {
		workerCount = 1
	}
	assignments := make([][]int, workerCount)
	for y := 0; y < rows; y++ {
		w := y % workerCount
		assignments[w] = append(assignments[w], y)
	}
	return assignments
}
