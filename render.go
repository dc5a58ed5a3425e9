package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

var (
	frontColor = color.RGBA{255, 220, 60, 255}
	probeColor = color.RGBA{255, 0, 0, 255}
	probeUnder = color.RGBA{255, 120, 200, 255}
)

// Draw renders the deformed mesh as a shaded heightmap, the surge front
// while the tide moves, the probe and the optional overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	s := g.engine.Surface()
	if mesh := s.Mesh(); mesh != nil {
		vertices, err := s.Deformer().Vertices(g.vertices)
		if err == nil {
			g.vertices = vertices
			cols, rows := mesh.Resolution.Vertices()
			g.paintHeights(cols, rows)
			screen.WritePixels(g.pixels)
		}
	}

	if g.engine.State().Moving() {
		g.drawFront(screen)
	}

	p := g.view.toScreen(g.probe)
	clr := probeColor
	if g.watcher.Under() {
		clr = probeUnder
	}
	for y := -probeRadius; y <= probeRadius; y++ {
		for x := -probeRadius; x <= probeRadius; x++ {
			cx, cy := p.x+x, p.y+y
			if cx >= 0 && cx < screenW && cy >= 0 && cy < screenH {
				screen.Set(cx, cy, clr)
			}
		}
	}

	if debugFlag {
		dispatches, failures := g.engine.Stats()
		res := s.Mesh().Resolution
		n := g.engine.NormalAt(g.probe)
		debugMsg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nTide: %s %.2f (wave %d)\nMesh: %dx%d, %d rebuilds (+/-)\nDeformer: %s\nTick: %.2f ms, %d dispatches, %d failed\nProbe: %.1f,%.1f h=%.2f n=(%.2f,%.2f,%.2f) under %.1fs",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			g.engine.State(), g.engine.Progress(), g.engine.Waves(),
			res.X, res.Y, s.Rebuilds(),
			s.Deformer().Name(),
			g.lastTickDuration.Seconds()*1000, dispatches, failures,
			g.probe.X(), g.probe.Y(), g.engine.HeightAt(g.probe), n.X(), n.Y(), n.Z(), g.underTime)
		ebitenutil.DebugPrint(screen, debugMsg)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return screenW, screenH }

// paintHeights fills g.pixels from the nearest vertex of every pixel, tinted
// by height and lit by the vertex normal.
func (g *Game) paintHeights(cols, rows int) {
	if len(g.vertices) < cols*rows {
		return
	}
	for py := 0; py < screenH; py++ {
		for px := 0; px < screenW; px++ {
			v := g.vertices[vertexIndex(px, py, cols, rows)]
			t := mgl64.Clamp((float64(v.Position.Y())+heightColorRange)/(2*heightColorRange), 0, 1)
			light := 0.35 + 0.65*mgl64.Clamp(float64(v.Normal.Y()), 0, 1)
			base := (py*screenW + px) * 4
			g.pixels[base] = byte((20 + 90*t) * light)
			g.pixels[base+1] = byte((70 + 150*t) * light)
			g.pixels[base+2] = byte((140 + 115*t) * light)
			g.pixels[base+3] = 255
		}
	}
}

// drawFront draws the straight surge front across the whole view.
func (g *Game) drawFront(screen *ebiten.Image) {
	dir := g.engine.WaveDirection()
	if dir.Len() == 0 {
		return
	}
	origin := g.engine.VectorToWaveFront(mgl64.Vec2{})
	perp := mgl64.Vec2{-dir.Y(), dir.X()}
	reach := g.view.size.Len()
	a := g.view.toScreen(origin.Add(perp.Mul(reach)))
	b := g.view.toScreen(origin.Sub(perp.Mul(reach)))
	drawLine(screen, a.x, a.y, b.x, b.y, frontColor)
}

// drawLine plots a line segment using Bresenham's integer algorithm.
func drawLine(screen *ebiten.Image, x0, y0, x1, y1 int, clr color.Color) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if x0 >= 0 && x0 < screenW && y0 >= 0 && y0 < screenH {
			screen.Set(x0, y0, clr)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}
