package actors

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidewater/internal/tide"
)

// fakeSea has a straight front at frontX along dir.
type fakeSea struct {
	height func(mgl64.Vec2) float64
	level  float64
	frontX float64
	dir    mgl64.Vec2
	state  tide.State
}

func (s *fakeSea) HeightAt(p mgl64.Vec2) float64 {
	if s.height != nil {
		return s.height(p)
	}
	return s.level
}

func (s *fakeSea) VectorToWaveFront(p mgl64.Vec2) mgl64.Vec2 {
	return s.dir.Mul(s.frontX - p.Dot(s.dir))
}

func (s *fakeSea) WaveDirection() mgl64.Vec2 { return s.dir }
func (s *fakeSea) State() tide.State         { return s.state }

func TestFloater(t *testing.T) {
	box := Box{Center: mgl64.Vec3{0, 0, 0}, Extents: mgl64.Vec3{1, 1, 1}}
	f := NewFloater(8)
	f.Drag, f.AngularDrag = 0.1, 0.2

	t.Run("dry", func(t *testing.T) {
		b := f.Evaluate(&fakeSea{level: -5}, box)
		assert.Zero(t, b.Force)
		assert.Zero(t, b.Displacement)
		assert.Equal(t, 0.1, b.Drag)
		assert.Equal(t, 0.2, b.AngularDrag)
		assert.Equal(t, -5.0, b.WaterLevel)
	})

	t.Run("submerged", func(t *testing.T) {
		b := f.Evaluate(&fakeSea{level: 10}, box)
		assert.InDelta(t, WaterDensity*8*0.5*Gravity, b.Force, 1e-9)
		assert.Equal(t, 1.0, b.Displacement)
		assert.Equal(t, mgl64.Vec3{0, 0, 0}, b.Point)
		assert.InDelta(t, 5, b.Drag, 1e-12)
		assert.InDelta(t, 10, b.AngularDrag, 1e-12)
	})

	t.Run("half submerged", func(t *testing.T) {
		b := f.Evaluate(&fakeSea{level: 1}, box)
		assert.InDelta(t, 0.5, b.Displacement, 1e-12)
		assert.InDelta(t, WaterDensity*8*0.5*0.5*Gravity, b.Force, 1e-9)
	})

	t.Run("tilted water pushes the force off centre", func(t *testing.T) {
		sea := &fakeSea{height: func(p mgl64.Vec2) float64 { return p.X() }}
		b := f.Evaluate(sea, box)
		assert.Greater(t, b.Point.X(), 0.0)
		assert.InDelta(t, 0, b.Point.Z(), 1e-12)

		centred := f
		centred.MaxOffCenter = 0
		assert.InDelta(t, 0, centred.Evaluate(sea, box).Point.X(), 1e-12)
	})
}

func TestNormalizedDepth(t *testing.T) {
	sea := &fakeSea{level: 0}
	assert.InDelta(t, 0.5, NormalizedDepth(sea, mgl64.Vec3{0, -5, 0}, -10), 1e-12)
	assert.InDelta(t, 0, NormalizedDepth(sea, mgl64.Vec3{0, -10, 0}, -10), 1e-12)
	assert.Equal(t, 1.0, NormalizedDepth(sea, mgl64.Vec3{0, -5, 0}, 2), "water below the ground")
	assert.Greater(t, NormalizedDepth(sea, mgl64.Vec3{0, 1, 0}, -10), 1.0)
}

func TestSwimmer(t *testing.T) {
	sea := &fakeSea{level: 0}
	s := NewSwimmer(DefaultSwimmer(), 7, sea, mgl64.Vec3{0, -5, 0}, -10)
	require.True(t, s.Underwater())

	// Sinking below the preferred depth steers up after the next sample.
	steer := s.Tick(DepthSampleInterval, 1, sea, mgl64.Vec3{0, -8, 0}, -10)
	assert.Equal(t, 1.0, steer.Forward)
	assert.Equal(t, 1.0, steer.Upward)

	steer = s.Tick(DepthSampleInterval, 2, sea, mgl64.Vec3{0, -2, 0}, -10)
	assert.Equal(t, -1.0, steer.Upward)

	// Between samples the last depth is reused.
	steer = s.Tick(0.1, 2.1, sea, mgl64.Vec3{0, -8, 0}, -10)
	assert.Equal(t, -1.0, steer.Upward)

	out := s.Tick(DepthSampleInterval, 3, sea, mgl64.Vec3{0, 2, 0}, -10)
	assert.False(t, s.Underwater())
	assert.Equal(t, Steering{}, out)
}

func TestSwimmerTurnNoise(t *testing.T) {
	sea := &fakeSea{level: 0}
	a := NewSwimmer(DefaultSwimmer(), 42, sea, mgl64.Vec3{0, -1, 0}, -10)
	b := NewSwimmer(DefaultSwimmer(), 42, sea, mgl64.Vec3{0, -1, 0}, -10)
	for ts := 0.0; ts < 10; ts += 0.37 {
		turn := a.TurnAmount(ts)
		assert.Equal(t, turn, b.TurnAmount(ts))
		assert.GreaterOrEqual(t, turn, -1.0)
		assert.LessOrEqual(t, turn, 1.0)
	}
}

func TestRiderFollowsFrontUntilDrop(t *testing.T) {
	sea := &fakeSea{dir: mgl64.Vec2{1, 0}, frontX: 10}
	r := NewRider(1, rand.New(rand.NewSource(3)))
	require.True(t, r.Attached())
	assert.LessOrEqual(t, r.Offset(), 1.0)
	assert.GreaterOrEqual(t, r.Offset(), -1.0)

	r.DropAt(mgl64.Vec2{0, 0})
	pos := mgl64.Vec2{3, 4}
	for r.Attached() && sea.frontX > -10 {
		pos = r.Step(sea, pos)
		assert.InDelta(t, sea.frontX+r.Offset(), pos.X(), 1e-12)
		assert.Equal(t, 4.0, pos.Y(), "motion is along the wave direction only")
		sea.frontX -= 0.5
	}
	require.False(t, r.Attached())
	assert.LessOrEqual(t, pos.X(), 0.0)
	assert.Greater(t, pos.X(), -0.5-1e-9)

	sea.frontX = -5
	assert.Equal(t, pos, r.Step(sea, pos), "a dropped rider no longer moves")
}

func TestSweep(t *testing.T) {
	s := Sweep{Strength: 3}
	sea := &fakeSea{level: 1, dir: mgl64.Vec2{1, 0}, frontX: 2, state: tide.Rising}

	tests := []struct {
		name  string
		state tide.State
		pos   mgl64.Vec3
		want  mgl64.Vec2
	}{
		{"dry", tide.Dry, mgl64.Vec3{5, 0, 0}, mgl64.Vec2{}},
		{"flooded", tide.Flooded, mgl64.Vec3{5, 0, 0}, mgl64.Vec2{}},
		{"above water", tide.Rising, mgl64.Vec3{5, 3, 0}, mgl64.Vec2{}},
		{"front not there yet", tide.Rising, mgl64.Vec3{-5, 0, 0}, mgl64.Vec2{}},
		{"front passed", tide.Rising, mgl64.Vec3{5, 0, 0}, mgl64.Vec2{-3, 0}},
		{"falling", tide.Falling, mgl64.Vec3{5, 0, 0}, mgl64.Vec2{-3, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sea.state = tt.state
			assert.Equal(t, tt.want, s.Push(sea, tt.pos))
		})
	}
}

func TestUnderwaterWatcher(t *testing.T) {
	sea := &fakeSea{level: 0}
	var w UnderwaterWatcher

	changed, under := w.Update(sea, mgl64.Vec3{0, 1, 0})
	assert.False(t, changed)
	assert.False(t, under)

	changed, under = w.Update(sea, mgl64.Vec3{0, -1, 0})
	assert.True(t, changed)
	assert.True(t, under)

	changed, _ = w.Update(sea, mgl64.Vec3{0, -2, 0})
	assert.False(t, changed)

	changed, under = w.Update(sea, mgl64.Vec3{0, 0, 0})
	assert.True(t, changed, "exactly at the surface counts as above")
	assert.False(t, under)
}

func TestSpawnerRounds(t *testing.T) {
	// Deep water for x >= 0, a beach for x < 0.
	sea := &fakeSea{height: func(p mgl64.Vec2) float64 {
		if p.X() >= 0 {
			return 3
		}
		return 0.2
	}}
	s := NewSpawner(SpawnConfig{
		Count:        20,
		Area:         Rect{Min: mgl64.Vec2{-10, -10}, Max: mgl64.Vec2{10, 10}},
		MinDepth:     1,
		GroundOffset: 0.1,
	}, rand.New(rand.NewSource(11)))

	rounds := s.Observe([]tide.Event{
		{From: tide.Falling, To: tide.Dry, Cycle: 0},
		{From: tide.Dry, To: tide.Rising, Cycle: 1, At: 2},
		{From: tide.Rising, To: tide.Flooded, Cycle: 1, At: 3},
	}, sea)
	require.Len(t, rounds, 1)
	r := rounds[0]
	assert.Equal(t, 1, r.Wave)
	assert.Equal(t, 2.0, r.At)
	assert.Equal(t, 20, len(r.Spawned)+r.Deferred)
	for _, p := range r.Spawned {
		assert.GreaterOrEqual(t, p.X(), 0.0, "only deep water is used")
		assert.GreaterOrEqual(t, p.Y(), 0.1)
		assert.LessOrEqual(t, p.Y(), 2.0)
	}
	assert.Equal(t, len(r.Spawned), s.Alive())
	assert.Equal(t, r.Deferred, s.Pending())

	// The beach floods; deferred candidates spawn and nothing new is drawn.
	sea.height = func(mgl64.Vec2) float64 { return 3 }
	next := s.Observe([]tide.Event{{From: tide.Dry, To: tide.Rising, Cycle: 2}}, sea)
	require.Len(t, next, 1)
	assert.NotEqual(t, r.ID, next[0].ID)
	assert.Len(t, next[0].Spawned, r.Deferred)
	assert.Equal(t, 20, s.Alive())
	assert.Zero(t, s.Pending())

	s.Release(5)
	third := s.Observe([]tide.Event{{From: tide.Dry, To: tide.Rising, Cycle: 3}}, sea)
	assert.Len(t, third[0].Spawned, 5)
}
