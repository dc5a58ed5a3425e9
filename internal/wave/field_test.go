package wave

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSurge() Surge {
	return Surge{Wavelength: 40, Steepness: 4, Direction: mgl64.Vec2{1, 0}, Height: 2}
}

func TestHeightDeterministic(t *testing.T) {
	f := NewField([]Component{
		{Frequency: 0.7, Amplitude: 0.2, Speed: 1.3, Direction: Direction(30), Active: true},
		{Frequency: 1.9, Amplitude: 0.05, Speed: 2.1, Direction: Direction(200), Active: true},
	}, testSurge())

	pos := mgl64.Vec2{3.25, -7.5}
	first := f.Height(pos, 12.5, 0.37)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, f.Height(pos, 12.5, 0.37))
	}
}

func TestHeightZeroConfiguration(t *testing.T) {
	f := NewField(nil, Surge{Wavelength: 10, Steepness: 2, Direction: mgl64.Vec2{0, 1}, Height: 0})
	inactive := NewField([]Component{
		{Frequency: 1, Amplitude: 3, Speed: 1, Direction: Direction(45), Active: false},
	}, Surge{})

	for _, pos := range []mgl64.Vec2{{0, 0}, {1, 2}, {-50, 13.5}, {1e6, -1e6}} {
		for _, progress := range []float64{0, 0.5, 1} {
			assert.Equal(t, 0.0, f.Height(pos, 4, progress), "pos %v progress %v", pos, progress)
			assert.Equal(t, 0.0, inactive.Height(pos, 4, progress), "pos %v progress %v", pos, progress)
		}
	}
}

func TestAmbientComponent(t *testing.T) {
	f := NewField([]Component{
		{Frequency: 2, Amplitude: 0.5, Speed: 3, Direction: mgl64.Vec2{2, 0}, Active: true},
	}, Surge{})

	pos := mgl64.Vec2{1.5, 9}
	want := 0.5 * math.Sin(1.5*2+0.25*3)
	assert.InDelta(t, want, f.Height(pos, 0.25, 0), 1e-12)
}

func TestSurgeShape(t *testing.T) {
	tests := []struct {
		dot      float64
		progress float64
		want     float64
	}{
		// At the front the pulse passes through half height.
		{dot: 10, progress: 0, want: 1},
		{dot: -10, progress: 1, want: 1},
		// The crest and the trough of the principal period.
		{dot: 20, progress: 0, want: 2},
		{dot: 0, progress: 0, want: 0},
		{dot: 0, progress: 1, want: 2},
	}
	f := NewField(nil, testSurge())
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt), func(t *testing.T) {
			assert.InDelta(t, tt.want, f.Height(mgl64.Vec2{tt.dot, 5}, 0, tt.progress), 1e-9)
		})
	}
}

func TestSurgeSteepensFront(t *testing.T) {
	soft := NewField(nil, Surge{Wavelength: 40, Steepness: 1, Direction: mgl64.Vec2{1, 0}, Height: 2})
	steep := NewField(nil, Surge{Wavelength: 40, Steepness: 8, Direction: mgl64.Vec2{1, 0}, Height: 2})

	// Just seaward of the front the steep surge is already much closer to full height.
	pos := mgl64.Vec2{11, 0}
	assert.Greater(t, steep.Height(pos, 0, 0), soft.Height(pos, 0, 0))
	assert.Less(t, steep.Height(mgl64.Vec2{9, 0}, 0, 0), soft.Height(mgl64.Vec2{9, 0}, 0, 0))
}

func TestZeroWavelength(t *testing.T) {
	f := NewField(nil, Surge{Wavelength: 0, Steepness: 3, Direction: mgl64.Vec2{1, 0}, Height: 5})

	h := f.Height(mgl64.Vec2{2, 3}, 1, 0.5)
	require.False(t, math.IsNaN(h))
	assert.Equal(t, 0.0, h)
	assert.Equal(t, mgl64.Vec2{}, f.WaveFront(mgl64.Vec2{2, 3}, 1, 0.5))
	n := f.Normal(mgl64.Vec2{2, 3}, 1, 0.5, 1)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, n)
}

func TestWaveFrontTracksFront(t *testing.T) {
	f := NewField(nil, testSurge())
	dir := f.Surge().Direction

	// The front sweeps from +λ/4 to -λ/4 along the surge direction.
	assert.InDelta(t, 10.0, f.FrontOffset(0), 1e-12)
	assert.InDelta(t, -10.0, f.FrontOffset(1), 1e-12)

	pos := mgl64.Vec2{0, 4}
	ahead := f.WaveFront(pos, 0, 0.25)
	assert.Greater(t, ahead.Dot(dir), 0.0, "front has not reached the point yet")
	assert.InDelta(t, 5.0, ahead.Len(), 1e-9)

	passed := f.WaveFront(pos, 0, 0.75)
	assert.Less(t, passed.Dot(dir), 0.0, "front passed the point")

	// Adding the vector lands exactly on the half-height front.
	onFront := pos.Add(ahead)
	assert.InDelta(t, f.Surge().Height/2, f.Height(onFront, 0, 0.25), 1e-9)
}

func TestNormalMatchesFiniteDifference(t *testing.T) {
	f := NewField([]Component{
		{Frequency: 0.8, Amplitude: 0.3, Speed: 1, Direction: Direction(60), Active: true},
	}, Surge{Wavelength: 40, Steepness: 2, Direction: mgl64.Vec2{1, 0}, Height: 1.5})

	pos := mgl64.Vec2{4.2, -1.1}
	const eps = 1e-6
	dx := (f.Height(pos.Add(mgl64.Vec2{eps, 0}), 2, 0.4) - f.Height(pos.Sub(mgl64.Vec2{eps, 0}), 2, 0.4)) / (2 * eps)
	dz := (f.Height(pos.Add(mgl64.Vec2{0, eps}), 2, 0.4) - f.Height(pos.Sub(mgl64.Vec2{0, eps}), 2, 0.4)) / (2 * eps)

	grad := f.Gradient(pos, 2, 0.4)
	assert.InDelta(t, dx, grad.X(), 1e-5)
	assert.InDelta(t, dz, grad.Y(), 1e-5)

	n := f.Normal(pos, 2, 0.4, 1)
	assert.InDelta(t, 1.0, n.Len(), 1e-12)
	assert.Greater(t, n.Y(), 0.0)
}

func TestDirection(t *testing.T) {
	d := Direction(90)
	assert.InDelta(t, 0.0, d.X(), 1e-12)
	assert.InDelta(t, 1.0, d.Y(), 1e-12)
}
