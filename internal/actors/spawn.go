package actors

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"tidewater/internal/tide"
)

// Rect is an xz area.
type Rect struct {
	Min, Max mgl64.Vec2
}

// SpawnConfig describes one population that arrives with each surge.
type SpawnConfig struct {
	Count        int
	Area         Rect
	MinDepth     float64 // candidates in shallower water wait for a later round
	GroundOffset float64
	// Ground returns the floor height at xz. Nil means a flat floor at 0.
	Ground func(xz mgl64.Vec2) float64
}

// Round is the outcome of one spawn round.
type Round struct {
	ID       uuid.UUID
	Wave     int
	At       float64
	Spawned  []mgl64.Vec3
	Deferred int // candidates kept for later rounds
}

// Spawner opens a round for every new wave. Candidates are drawn up front
// and only placed once the water over them is deep enough.
type Spawner struct {
	cfg     SpawnConfig
	rng     *rand.Rand
	alive   int
	pending []mgl64.Vec2
}

func NewSpawner(cfg SpawnConfig, rng *rand.Rand) *Spawner {
	return &Spawner{cfg: cfg, rng: rng}
}

// Alive is the number of spawned bodies not yet released.
func (s *Spawner) Alive() int { return s.alive }

// Pending is the number of candidate points waiting for deeper water.
func (s *Spawner) Pending() int { return len(s.pending) }

// Release reports n spawned bodies as gone.
func (s *Spawner) Release(n int) {
	s.alive = max(0, s.alive-n)
}

// Observe runs one round per new wave in events.
func (s *Spawner) Observe(events []tide.Event, w Heights) []Round {
	var rounds []Round
	for _, ev := range events {
		if !ev.NewWave() {
			continue
		}
		rounds = append(rounds, s.round(ev, w))
	}
	return rounds
}

func (s *Spawner) round(ev tide.Event, w Heights) Round {
	r := Round{ID: uuid.New(), Wave: ev.Cycle, At: ev.At}

	for n := s.alive + len(s.pending); n < s.cfg.Count; n++ {
		s.pending = append(s.pending, mgl64.Vec2{
			lerp(s.cfg.Area.Min.X(), s.cfg.Area.Max.X(), s.rng.Float64()),
			lerp(s.cfg.Area.Min.Y(), s.cfg.Area.Max.Y(), s.rng.Float64()),
		})
	}

	kept := s.pending[:0]
	for _, p := range s.pending {
		ground := 0.0
		if s.cfg.Ground != nil {
			ground = s.cfg.Ground(p)
		}
		water := w.HeightAt(p)
		if water-ground < s.cfg.MinDepth {
			kept = append(kept, p)
			continue
		}
		low := ground + s.cfg.GroundOffset
		high := math.Max(low, water-s.cfg.MinDepth)
		r.Spawned = append(r.Spawned, mgl64.Vec3{p.X(), lerp(low, high, s.rng.Float64()), p.Y()})
	}
	s.pending = kept
	s.alive += len(r.Spawned)
	r.Deferred = len(s.pending)
	return r
}
