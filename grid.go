package main

import "github.com/go-gl/mathgl/mgl64"

// intPoint is a pixel on the preview screen.
type intPoint struct {
	x int
	y int
}

// view maps the water area onto the preview screen. Screen row 0 is the +z
// edge, matching mesh row 0.
type view struct {
	size mgl64.Vec2
}

// toScreen converts a world xz position to a pixel.
func (v view) toScreen(p mgl64.Vec2) intPoint {
	u := (p.X()/v.size.X() + 0.5) * float64(screenW-1)
	t := (0.5 - p.Y()/v.size.Y()) * float64(screenH-1)
	return intPoint{x: int(u + 0.5), y: int(t + 0.5)}
}

// toWorld converts a pixel to the world xz position at its centre.
func (v view) toWorld(px, py int) mgl64.Vec2 {
	return mgl64.Vec2{
		(float64(px)/float64(screenW-1) - 0.5) * v.size.X(),
		(0.5 - float64(py)/float64(screenH-1)) * v.size.Y(),
	}
}

// clamp keeps a world position inside the water area.
func (v view) clamp(p mgl64.Vec2) mgl64.Vec2 {
	hx, hz := v.size.X()/2, v.size.Y()/2
	return mgl64.Vec2{mgl64.Clamp(p.X(), -hx, hx), mgl64.Clamp(p.Y(), -hz, hz)}
}

// vertexIndex returns the mesh vertex nearest to a pixel.
func vertexIndex(px, py, cols, rows int) int {
	x := clampCoord((px*(cols-1)+(screenW-1)/2)/(screenW-1), 0, cols-1)
	y := clampCoord((py*(rows-1)+(screenH-1)/2)/(screenH-1), 0, rows-1)
	return y*cols + x
}

// clampCoord constrains v to lie within the inclusive [min, max] range.
func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
