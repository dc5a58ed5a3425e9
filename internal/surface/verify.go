package surface

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// verifyTolerance bounds the per-component difference between a deformed
// vertex and the host evaluation of the same Params.
const verifyTolerance = 1e-3

// checkVertices recomputes height and normal for every vertex from p and
// reports the first one off by more than tol.
func checkVertices(got []Vertex, p Params, tol float64) error {
	field := p.Field()
	t, progress, scale := float64(p.Time), float64(p.Progress), float64(p.NormalScale)
	for i, v := range got {
		pos := mgl64.Vec2{float64(v.Position.X()), float64(v.Position.Z())}
		want := field.Height(pos, t, progress)
		if diff := math.Abs(float64(v.Position.Y()) - want); diff > tol {
			return fmt.Errorf("vertex %d height mismatch: device=%f host=%f diff=%f", i, v.Position.Y(), want, diff)
		}
		n := field.Normal(pos, t, progress, scale)
		for axis := 0; axis < 3; axis++ {
			if diff := math.Abs(float64(v.Normal[axis]) - n[axis]); diff > tol {
				return fmt.Errorf("vertex %d normal mismatch: device=%v host=%v", i, v.Normal, n)
			}
		}
	}
	return nil
}
