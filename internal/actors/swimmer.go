package actors

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/ojrac/opensimplex-go"
)

const (
	// DefaultGround is used when nothing below a swimmer reports a floor.
	DefaultGround = -20.0
	// DepthSampleInterval is how often a swimmer re-reads its depth.
	DepthSampleInterval = 0.25
)

// NormalizedDepth maps y between the ground (0) and the water surface (1).
// Anything at or above the surface, or water below the ground, reads 1.
func NormalizedDepth(w Heights, pos mgl64.Vec3, ground float64) float64 {
	water := w.HeightAt(xz(pos))
	if water <= ground {
		return 1
	}
	return (pos.Y() - ground) / (water - ground)
}

// SwimmerConfig tunes a creature's locomotion.
type SwimmerConfig struct {
	Forward, Upward, Turn float64

	TurnRandomness      float64 // main noise frequency
	TurnDetail          float64 // detail noise frequency
	TurnDetailMagnitude float64 // detail share, 0..1
}

// DefaultSwimmer matches a small fish.
func DefaultSwimmer() SwimmerConfig {
	return SwimmerConfig{Forward: 1, Upward: 1, Turn: 1, TurnRandomness: 1, TurnDetail: 1, TurnDetailMagnitude: 1}
}

// Steering is what a swimmer wants to do this tick.
type Steering struct {
	Forward float64 // along its heading
	Upward  float64 // vertical force toward the preferred depth
	Turn    float64 // yaw torque
}

// Swimmer keeps a creature near the depth it was spawned at and gives it a
// wandering heading.
type Swimmer struct {
	cfg    SwimmerConfig
	noise  opensimplex.Noise
	offset float64

	target     float64
	current    float64
	underwater bool
	since      float64
}

// NewSwimmer samples the starting depth, which becomes the preferred one.
func NewSwimmer(cfg SwimmerConfig, seed int64, w Heights, pos mgl64.Vec3, ground float64) *Swimmer {
	rng := rand.New(rand.NewSource(seed))
	s := &Swimmer{
		cfg:    cfg,
		noise:  opensimplex.NewNormalized(seed),
		offset: rng.Float64()*20000 - 10000,
	}
	s.target = NormalizedDepth(w, pos, ground)
	s.sample(w, pos, ground)
	return s
}

func (s *Swimmer) sample(w Heights, pos mgl64.Vec3, ground float64) {
	s.current = NormalizedDepth(w, pos, ground)
	s.underwater = s.current < 1
}

// Underwater reports the last sampled state.
func (s *Swimmer) Underwater() bool { return s.underwater }

// Depth returns the last sampled normalised depth.
func (s *Swimmer) Depth() float64 { return s.current }

// TurnAmount is the noise driven yaw in [-1,1] at time t.
func (s *Swimmer) TurnAmount(t float64) float64 {
	main := s.noise.Eval2(s.cfg.TurnRandomness*t, s.offset)
	detail := s.noise.Eval2(s.cfg.TurnDetail*t, s.offset)
	m := s.cfg.TurnDetailMagnitude
	return (main*(1-m)+detail*m)*2 - 1
}

// Tick re-samples the depth every DepthSampleInterval and returns the
// steering for time t. Creatures out of the water do nothing.
func (s *Swimmer) Tick(dt, t float64, w Heights, pos mgl64.Vec3, ground float64) Steering {
	s.since += dt
	if s.since >= DepthSampleInterval {
		s.since = math.Mod(s.since, DepthSampleInterval)
		s.sample(w, pos, ground)
	}
	if !s.underwater {
		return Steering{}
	}
	var up float64
	switch {
	case s.target > s.current:
		up = s.cfg.Upward
	case s.target < s.current:
		up = -s.cfg.Upward
	}
	return Steering{
		Forward: s.cfg.Forward,
		Upward:  up,
		Turn:    s.TurnAmount(t) * s.cfg.Turn,
	}
}
