package surface

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidewater/internal/wave"
)

func TestPackWithoutComponentsKeepsOneEntry(t *testing.T) {
	p := Pack(wave.NewField(nil, wave.Surge{}), 1)
	require.Equal(t, 1, p.WaveCount)
	require.Len(t, p.Waves, WaveStride)
	assert.Equal(t, defaultWave[:], p.Waves)

	// The placeholder entry contributes nothing.
	f := p.Field()
	assert.Equal(t, 0.0, f.Height(mgl64.Vec2{3, 4}, 2, 0.5))
}

func TestPackInactiveComponentUsesDefault(t *testing.T) {
	f := wave.NewField([]wave.Component{
		{Frequency: 2, Amplitude: 1, Speed: 3, Direction: mgl64.Vec2{0, 1}, Steepness: 0.5, Active: true},
		{Frequency: 9, Amplitude: 9, Speed: 9, Direction: mgl64.Vec2{1, 1}, Active: false},
	}, wave.Surge{Wavelength: 30, Steepness: 3, Direction: mgl64.Vec2{0, 2}, Height: 1.5})

	p := Pack(f, 0.75)
	require.Equal(t, 2, p.WaveCount)
	assert.Equal(t, []float32{2, 1, 3, 0, 1, 0.5}, p.Waves[:WaveStride])
	assert.Equal(t, defaultWave[:], p.Waves[WaveStride:])
	assert.Equal(t, float32(30), p.SurgeWavelength)
	assert.Equal(t, float32(0), p.SurgeDirX)
	assert.Equal(t, float32(1), p.SurgeDirY, "surge direction is normalised")
	assert.Equal(t, float32(0.75), p.NormalScale)
}

func TestParamsFieldMatchesSource(t *testing.T) {
	f := wave.NewField([]wave.Component{
		{Frequency: 0.5, Amplitude: 0.25, Speed: 1.5, Direction: wave.Direction(20), Active: true},
	}, wave.Surge{Wavelength: 40, Steepness: 4, Direction: mgl64.Vec2{1, 0}, Height: 2})

	p := Pack(f, 1).At(3.5, 0.4)
	assert.Equal(t, float32(3.5), p.Time)
	assert.Equal(t, float32(0.4), p.Progress)

	rebuilt := p.Field()
	for _, pos := range []mgl64.Vec2{{0, 0}, {3, -7}, {-12.5, 4}} {
		assert.InDelta(t, f.Height(pos, 3.5, 0.4), rebuilt.Height(pos, 3.5, float64(p.Progress)), 1e-5)
	}
}

func TestWrapTime(t *testing.T) {
	assert.Equal(t, 2.5, WrapTime(2.5))
	assert.Equal(t, 2.5, WrapTime(TimeWrap+2.5))
	assert.Equal(t, 0.0, WrapTime(5*TimeWrap))
	assert.Equal(t, TimeWrap-1, WrapTime(-1))

	p := Pack(wave.NewField(nil, wave.Surge{}), 1).At(7*TimeWrap+0.75, 1)
	assert.Equal(t, float32(0.75), p.Time)
}
