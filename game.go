package main

import (
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"tidewater/internal/actors"
	"tidewater/internal/config"
	"tidewater/internal/engine"
	"tidewater/internal/surface"
	"tidewater/internal/tide"
)

// Game hosts one water engine in the preview window together with a probe
// the user steers around the surface.
type Game struct {
	engine *engine.Engine
	view   view

	probe     mgl64.Vec2
	watcher   actors.UnderwaterWatcher
	underTime float64

	lastTickDuration time.Duration
	lastEvent        tide.Event
	dispatchLogged   bool

	vertices []surface.Vertex
	pixels   []byte

	audioCtx    *audio.Context
	audioStream *surfAudioStream
	audioPlayer *audio.Player
}

// newGame builds the engine and optional audio. Startup failures are fatal.
func newGame(cfg config.Config) *Game {
	e, err := buildEngine(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	g := &Game{
		engine: e,
		view:   view{size: cfg.MeshSize()},
		pixels: make([]byte, screenW*screenH*4),
	}
	if enableAudioFlag {
		g.startAudio()
	}
	return g
}

func (g *Game) startAudio() {
	var source sampleSource = newNoiseSource(time.Now().UnixNano())
	if surfLoopFlag != "" {
		loop, err := loadSurfLoop(audioSampleRate, surfLoopFlag)
		if err != nil {
			log.Printf("Surf loop unavailable, using noise: %v", err)
		} else {
			source = loop
		}
	}
	ctx := audio.NewContext(audioSampleRate)
	g.audioCtx = ctx
	stream := newSurfAudioStream(source)
	g.audioStream = stream
	player, err := ctx.NewPlayer(stream)
	if err != nil {
		log.Printf("Audio player creation failed: %v", err)
		return
	}
	g.audioPlayer = player
	g.audioPlayer.SetBufferSize(audioPlayerBufferLatency)
	g.audioPlayer.Play()
}

// Update moves the probe and advances the water by one tick.
func (g *Game) Update() error {
	dx, dz := g.movementVector()
	g.probe = g.view.clamp(g.probe.Add(mgl64.Vec2{dx, dz}))
	g.placeProbe()
	g.handleDebugControls()

	dt := 1.0 / float64(ebiten.TPS())
	start := time.Now()
	events, err := g.engine.Tick(dt)
	g.lastTickDuration = time.Since(start)
	if err != nil && !g.dispatchLogged {
		log.Printf("Surface dispatch failed, mesh will lag behind: %v", err)
		g.dispatchLogged = true
	}
	for _, ev := range events {
		g.lastEvent = ev
		if debugFlag {
			log.Printf("Tide %s -> %s (wave %d at %.2fs)", ev.From, ev.To, ev.Cycle, ev.At)
		}
	}

	probe := mgl64.Vec3{g.probe.X(), probeFloatHeight, g.probe.Y()}
	if changed, under := g.watcher.Update(g.engine, probe); changed && debugFlag {
		log.Printf("Probe underwater: %v", under)
	}
	if g.watcher.Under() {
		g.underTime += dt
	}
	if g.audioStream != nil {
		g.audioStream.SetLevel(surfLevel(g.engine.HeightAt(g.probe)-probeFloatHeight, g.engine.State()))
	}
	return nil
}

// surfLevel maps water depth over the probe to a loudness in [0,1]. Moving
// water is louder.
func surfLevel(depth float64, state tide.State) float32 {
	level := mgl64.Clamp(depth/heightColorRange+0.25, 0, 1)
	if state.Moving() {
		level = mgl64.Clamp(level*1.5, 0, 1)
	}
	return float32(level)
}

// Close stops audio and releases the deformer.
func (g *Game) Close() {
	if g.audioPlayer != nil {
		g.audioPlayer.Pause()
	}
	g.engine.Close()
}
