package loop

import (
	"time"

	"github.com/tomz197/shootblitz/internal/loop/config"
	"github.com/tomz197/shootblitz/internal/object"
)

// Driver steps a World once per frame while it is running. The time
// baseline is taken on the first frame after a start, so the first step of
// every run is close to zero.
type Driver struct {
	world *World
	last  time.Time
}

// NewDriver creates a driver for w.
func NewDriver(w *World) *Driver {
	return &Driver{world: w}
}

// Frame advances the world to now with the given intent. The step is capped
// at config.MaxFrameDelta seconds. Returns false, without touching the
// world, when the world is not running; the current frame always completes
// even if it ends the run.
func (d *Driver) Frame(now time.Time, intent object.Intent) bool {
	if !d.world.Running() {
		d.last = time.Time{}
		return false
	}
	if d.last.IsZero() {
		d.last = now
	}
	dt := min(config.MaxFrameDelta, now.Sub(d.last).Seconds())
	d.last = now
	d.world.Update(max(dt, 0), intent)
	return true
}

// Reset drops the time baseline. The next Frame starts a fresh run.
func (d *Driver) Reset() {
	d.last = time.Time{}
}
