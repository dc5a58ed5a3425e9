package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// movementVector returns WASD input scaled by probeSpeed as an xz step.
// W moves toward +z, the top of the screen.
func (g *Game) movementVector() (float64, float64) {
	dx, dz := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		dz += probeSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		dz -= probeSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		dx -= probeSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		dx += probeSpeed
	}
	if dx != 0 && dz != 0 {
		dx *= 0.7071
		dz *= 0.7071
	}
	return dx, dz
}

// placeProbe moves the probe to the clicked pixel.
func (g *Game) placeProbe() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	x, y := ebiten.CursorPosition()
	g.probe = g.view.clamp(g.view.toWorld(x, y))
}

// handleDebugControls processes the pause and mesh resolution hotkeys.
func (g *Game) handleDebugControls() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.engine.SetEnabled(!g.engine.Enabled())
		log.Printf("Tide paused: %v", !g.engine.Enabled())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.adjustResolution(0.5)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.adjustResolution(2)
	}
}

// adjustResolution scales the mesh resolution within bounds and rebuilds the
// mesh when it changed.
func (g *Game) adjustResolution(factor float64) {
	s := g.engine.Surface()
	res := s.Mesh().Resolution
	res.X = clampCoord(int(float64(res.X)*factor), minMeshResolution, maxMeshResolution)
	res.Y = clampCoord(int(float64(res.Y)*factor), minMeshResolution, maxMeshResolution)
	rebuilt, err := g.engine.ApplyMesh(s.Mesh().Size, res)
	if err != nil {
		log.Printf("Mesh rebuild failed: %v", err)
		return
	}
	if rebuilt {
		g.vertices = g.vertices[:0]
		log.Printf("Mesh rebuilt at %dx%d (%d rebuilds)", res.X, res.Y, s.Rebuilds())
	}
}
