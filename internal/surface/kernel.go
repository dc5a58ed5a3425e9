package surface

import (
	"fmt"
	"strings"

	"tidewater/internal/wave"
)

const kernelEntryPoint = "deform_surface"

// GroupSize is the work group edge length of the deform kernel.
const GroupSize = 8

// Argument slots of deform_surface.
const (
	argVertices = iota
	argWaves
	argWaveCount
	argCols
	argRows
	argTime
	argProgress
	argSurgeWavelength
	argSurgeSteepness
	argSurgeDirX
	argSurgeDirY
	argSurgeHeight
	argNormalScale
)

// The height and slope expressions mirror wave.Field.Height and
// wave.Field.Gradient term for term.
const deformKernelBody = `
__kernel void deform_surface(
    __global float* vertices,
    __global const float* waves,
    const int wave_count,
    const int cols,
    const int rows,
    const float time,
    const float progress,
    const float surge_wavelength,
    const float surge_steepness,
    const float surge_dir_x,
    const float surge_dir_y,
    const float surge_height,
    const float normal_scale)
{
    int x = get_global_id(0);
    int y = get_global_id(1);
    if (x >= cols || y >= rows) {
        return;
    }
    int base = (y * cols + x) * VERTEX_STRIDE;
    float px = vertices[base + POSITION_OFFSET];
    float pz = vertices[base + POSITION_OFFSET + 2];

    float height = 0.0f;
    float gx = 0.0f;
    float gz = 0.0f;
    for (int i = 0; i < wave_count; i++) {
        __global const float* w = waves + i * WAVE_STRIDE;
        float dx = w[WAVE_DIR_X];
        float dz = w[WAVE_DIR_Y];
        float freq = w[WAVE_FREQUENCY];
        float amp = w[WAVE_AMPLITUDE];
        float phase = (px * dx + pz * dz) * freq + time * w[WAVE_SPEED];
        height += amp * sin(phase);
        float slope = amp * freq * cos(phase);
        gx += dx * slope;
        gz += dz * slope;
    }

    if (surge_wavelength != 0.0f && surge_height != 0.0f) {
        float k = TWO_PI / surge_wavelength;
        float phase = (px * surge_dir_x + pz * surge_dir_y) * k + (progress - 0.5f) * PI;
        float s = sin(phase);
        float a = fabs(s);
        float shaped = (1.0f - pow(1.0f - a, surge_steepness)) * sign(s);
        height += (shaped + 1.0f) * 0.5f * surge_height;
        if (surge_steepness != 0.0f) {
            float b = fmax(1.0f - a, MIN_SLOPE_BASE);
            float slope = 0.5f * surge_height * surge_steepness * pow(b, surge_steepness - 1.0f) * cos(phase) * k;
            gx += surge_dir_x * slope;
            gz += surge_dir_y * slope;
        }
    }

    float3 n = normalize((float3)(-gx * normal_scale, 1.0f, -gz * normal_scale));
    vertices[base + POSITION_OFFSET + 1] = height;
    vertices[base + NORMAL_OFFSET] = n.x;
    vertices[base + NORMAL_OFFSET + 1] = n.y;
    vertices[base + NORMAL_OFFSET + 2] = n.z;
}
`

// KernelSource returns the OpenCL program. The layout constants are emitted
// from the Go definitions so both sides agree on strides and offsets.
func KernelSource() string {
	var b strings.Builder
	defines := []struct {
		name  string
		value any
	}{
		{"VERTEX_STRIDE", VertexStride},
		{"POSITION_OFFSET", PositionOffset},
		{"NORMAL_OFFSET", NormalOffset},
		{"WAVE_STRIDE", WaveStride},
		{"WAVE_FREQUENCY", waveFrequency},
		{"WAVE_AMPLITUDE", waveAmplitude},
		{"WAVE_SPEED", waveSpeed},
		{"WAVE_DIR_X", waveDirX},
		{"WAVE_DIR_Y", waveDirY},
		{"PI", "3.14159265358979f"},
		{"TWO_PI", "6.28318530717959f"},
		{"MIN_SLOPE_BASE", fmt.Sprintf("%gf", wave.MinSlopeBase)},
	}
	for _, d := range defines {
		fmt.Fprintf(&b, "#define %s %v\n", d.name, d.value)
	}
	b.WriteString(deformKernelBody)
	return b.String()
}
