package actors

import "github.com/go-gl/mathgl/mgl64"

// UnderwaterWatcher reports when a point crosses the surface.
type UnderwaterWatcher struct {
	under bool
}

// Update samples pos and reports whether the underwater state changed and
// what it is now. The watcher starts above water.
func (u *UnderwaterWatcher) Update(w Heights, pos mgl64.Vec3) (changed, under bool) {
	now := pos.Y() < w.HeightAt(xz(pos))
	if now == u.under {
		return false, now
	}
	u.under = now
	return true, now
}

func (u *UnderwaterWatcher) Under() bool { return u.under }
