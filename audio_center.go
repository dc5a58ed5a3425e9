package main

import (
	"sync"
)

// surfAudioStream is an endless 16-bit stereo stream of surf noise. Its
// loudness follows SetLevel with smoothing so level jumps do not click.
type surfAudioStream struct {
	mu     sync.Mutex
	source sampleSource
	target float32
	gain   float32
	dc     float32
	chunk  []float32
}

func newSurfAudioStream(source sampleSource) *surfAudioStream {
	return &surfAudioStream{source: source}
}

// SetLevel sets the target loudness in [0,1].
func (s *surfAudioStream) SetLevel(v float32) {
	if v > 1 {
		v = 1
	} else if v < 0 {
		v = 0
	}
	s.mu.Lock()
	s.target = v
	s.mu.Unlock()
}

func (s *surfAudioStream) Read(p []byte) (int, error) {
	// Only whole stereo frames (4 bytes per frame).
	frameBytes := len(p) - len(p)%4
	if frameBytes == 0 {
		return 0, nil
	}
	frames := frameBytes / 4

	s.mu.Lock()
	defer s.mu.Unlock()
	if cap(s.chunk) < frames {
		s.chunk = make([]float32, frames)
	}
	chunk := s.chunk[:frames]
	s.source.fillChunk(chunk)

	for i, raw := range chunk {
		s.gain += (s.target - s.gain) * surfGainSmoothing
		// Simple AC coupling: remove a slowly varying DC component.
		const alpha = 0.001
		s.dc += alpha * (raw - s.dc)
		v := (raw - s.dc) * s.gain
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		sample := int16(v * pcm16MaxValue)
		base := i * 4
		p[base] = byte(sample)
		p[base+1] = byte(sample >> 8)
		p[base+2] = p[base]
		p[base+3] = p[base+1]
	}
	return frameBytes, nil
}

func (s *surfAudioStream) Close() error {
	return nil
}
