package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// sampleSource produces mono samples in [-1,1].
type sampleSource interface {
	fillChunk(dst []float32)
}

// loadSurfLoop decodes the WAV at path, resampled to sampleRate, into a
// looping mono source.
func loadSurfLoop(sampleRate int, path string) (*loopSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stream, err := wav.DecodeWithSampleRate(sampleRate, f)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading decoded %q: %w", path, err)
	}
	mono := mixDownPCM16(pcm)
	if len(mono) == 0 {
		return nil, fmt.Errorf("wav %q has no complete frames", path)
	}
	return newLoopSource(mono), nil
}

// mixDownPCM16 averages little-endian 16-bit stereo frames into mono samples
// in [-1,1). A trailing partial frame is dropped.
func mixDownPCM16(pcm []byte) []float32 {
	if len(pcm) < 4 {
		return nil
	}
	mono := make([]float32, len(pcm)/4)
	for i := range mono {
		frame := pcm[i*4:]
		l := int16(binary.LittleEndian.Uint16(frame))
		r := int16(binary.LittleEndian.Uint16(frame[2:]))
		mono[i] = float32(int32(l)+int32(r)) / 65536
	}
	return mono
}

// loopSource repeats a decoded recording.
type loopSource struct {
	samples []float32
	pos     int
}

func newLoopSource(samples []float32) *loopSource {
	return &loopSource{samples: samples}
}

func (s *loopSource) fillChunk(dst []float32) {
	if len(s.samples) == 0 {
		clear(dst)
		return
	}
	for len(dst) > 0 {
		n := copy(dst, s.samples[s.pos:])
		dst = dst[n:]
		s.pos = (s.pos + n) % len(s.samples)
	}
}

// noiseSource is brown noise with a little white noise for hiss.
type noiseSource struct {
	rng   *rand.Rand
	brown float32
}

func newNoiseSource(seed int64) *noiseSource {
	return &noiseSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *noiseSource) fillChunk(dst []float32) {
	const brownStep = 0.02
	for i := range dst {
		white := s.rng.Float32()*2 - 1
		s.brown += white * brownStep
		if s.brown > 1 {
			s.brown = 1
		} else if s.brown < -1 {
			s.brown = -1
		}
		dst[i] = s.brown*0.85 + white*0.15
	}
}
