package surface

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"tidewater/internal/wave"
)

// Device layout shared by the packers and the generated kernel source.
const (
	VertexStride   = 8 // floats per vertex
	PositionOffset = 0
	NormalOffset   = 3
	UVOffset       = 6

	WaveStride    = 6 // floats per packed wave component
	waveFrequency = 0
	waveAmplitude = 1
	waveSpeed     = 2
	waveDirX      = 3
	waveDirY      = 4
	waveSteepness = 5
)

// Params is the per-tick input of a deformer: the packed components, which
// never change after load, plus the surge and clock values.
type Params struct {
	Waves     []float32 // WaveStride floats per entry, at least one entry
	WaveCount int

	Time     float32
	Progress float32

	SurgeWavelength float32
	SurgeSteepness  float32
	SurgeDirX       float32
	SurgeDirY       float32
	SurgeHeight     float32

	NormalScale float32
}

// defaultWave is what an inactive component uploads: a flat wave that adds nothing.
var defaultWave = [WaveStride]float32{waveFrequency: 1, waveDirX: 1}

// Pack converts a wave field into device parameters. The wave buffer always
// holds at least one entry so it can back a device allocation.
func Pack(f *wave.Field, normalScale float64) Params {
	components := f.Components()
	count := len(components)
	if count == 0 {
		count = 1
	}
	waves := make([]float32, count*WaveStride)
	for i := 0; i < count; i++ {
		entry := defaultWave
		if i < len(components) && components[i].Active {
			c := components[i]
			entry = [WaveStride]float32{
				waveFrequency: float32(c.Frequency),
				waveAmplitude: float32(c.Amplitude),
				waveSpeed:     float32(c.Speed),
				waveDirX:      float32(c.Direction.X()),
				waveDirY:      float32(c.Direction.Y()),
				waveSteepness: float32(c.Steepness),
			}
		}
		copy(waves[i*WaveStride:], entry[:])
	}
	s := f.Surge()
	return Params{
		Waves:           waves,
		WaveCount:       count,
		SurgeWavelength: float32(s.Wavelength),
		SurgeSteepness:  float32(s.Steepness),
		SurgeDirX:       float32(s.Direction.X()),
		SurgeDirY:       float32(s.Direction.Y()),
		SurgeHeight:     float32(s.Height),
		NormalScale:     float32(normalScale),
	}
}

// TimeWrap is the period after which the wave clock restarts. The clock is
// packed as float32, which keeps about 0.1 ms of precision below it.
const TimeWrap = 1024.0

// WrapTime folds a simulation clock into [0, TimeWrap). The surface jumps
// once per TimeWrap seconds; queries and deformers jump together.
func WrapTime(t float64) float64 {
	t = math.Mod(t, TimeWrap)
	if t < 0 {
		t += TimeWrap
	}
	return t
}

// At returns a copy of p for the given clock values. t is wrapped with
// WrapTime before packing.
func (p Params) At(t, progress float64) Params {
	p.Time = float32(WrapTime(t))
	p.Progress = float32(progress)
	return p
}

// Field rebuilds the wave field the device sees, at float32 precision.
func (p Params) Field() *wave.Field {
	components := make([]wave.Component, 0, p.WaveCount)
	for i := 0; i < p.WaveCount; i++ {
		w := p.Waves[i*WaveStride : (i+1)*WaveStride]
		components = append(components, wave.Component{
			Frequency: float64(w[waveFrequency]),
			Amplitude: float64(w[waveAmplitude]),
			Speed:     float64(w[waveSpeed]),
			Direction: mgl64.Vec2{float64(w[waveDirX]), float64(w[waveDirY])},
			Steepness: float64(w[waveSteepness]),
			Active:    true,
		})
	}
	return wave.NewField(components, wave.Surge{
		Wavelength: float64(p.SurgeWavelength),
		Steepness:  float64(p.SurgeSteepness),
		Direction:  mgl64.Vec2{float64(p.SurgeDirX), float64(p.SurgeDirY)},
		Height:     float64(p.SurgeHeight),
	})
}
