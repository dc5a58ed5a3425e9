package surface

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidewater/internal/wave"
)

func testField() *wave.Field {
	return wave.NewField([]wave.Component{
		{Frequency: 0.6, Amplitude: 0.2, Speed: 1.2, Direction: wave.Direction(35), Active: true},
		{Frequency: 1.7, Amplitude: 0.05, Speed: 2.4, Direction: wave.Direction(160), Active: true},
	}, wave.Surge{Wavelength: 40, Steepness: 4, Direction: mgl64.Vec2{1, 0}, Height: 2})
}

func TestCPUDeformerMatchesField(t *testing.T) {
	for _, workers := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			d := NewCPUDeformer(workers)
			defer d.Close()

			s := New(d)
			_, err := s.Apply(mgl64.Vec2{40, 40}, Resolution{X: 20, Y: 12})
			require.NoError(t, err)

			f := testField()
			params := Pack(f, 1)
			for _, tick := range []struct{ t, progress float64 }{{0, 0}, {1.25, 0.3}, {7.5, 1}} {
				require.NoError(t, s.Dispatch(params.At(tick.t, tick.progress)))

				got, err := d.Vertices(nil)
				require.NoError(t, err)
				require.Len(t, got, 21*13)
				for _, v := range got {
					pos := mgl64.Vec2{float64(v.Position.X()), float64(v.Position.Z())}
					want := f.Height(pos, tick.t, tick.progress)
					require.InDelta(t, want, float64(v.Position.Y()), 1e-4, "vertex at %v", pos)
					n := f.Normal(pos, tick.t, tick.progress, 1)
					require.InDelta(t, n.Y(), float64(v.Normal.Y()), 1e-4)
				}
			}
		})
	}
}

func TestCPUDeformerResizeKeepsWorkers(t *testing.T) {
	d := NewCPUDeformer(2)
	defer d.Close()
	s := New(d)

	_, err := s.Apply(mgl64.Vec2{10, 10}, Resolution{X: 4, Y: 4})
	require.NoError(t, err)
	require.NoError(t, s.Dispatch(Pack(testField(), 1)))

	_, err = s.Apply(mgl64.Vec2{10, 10}, Resolution{X: 9, Y: 9})
	require.NoError(t, err)
	require.NoError(t, s.Dispatch(Pack(testField(), 1).At(1, 0.5)))

	got, err := d.Vertices(nil)
	require.NoError(t, err)
	assert.Len(t, got, 100)
}

func TestCPUDeformerErrors(t *testing.T) {
	d := NewCPUDeformer(1)
	assert.ErrorIs(t, d.Dispatch(Pack(testField(), 1)), ErrNoMesh)
	_, err := d.Vertices(nil)
	assert.ErrorIs(t, err, ErrNoMesh)

	d.Close()
	m, err := BuildGrid(mgl64.Vec2{1, 1}, Resolution{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Error(t, d.Resize(m))
}

func TestAssignRows(t *testing.T) {
	assert.Equal(t, [][]int{{0, 3, 6}, {1, 4}, {2, 5}}, assignRows(3, 7))
	assert.Equal(t, [][]int{{0, 1}}, assignRows(0, 2))
}
