// Package object holds the game entities and the spawner that creates them.
package object

import (
	"time"

	"github.com/tomz197/shootblitz/internal/draw"
	"github.com/tomz197/shootblitz/internal/haptic"
	"github.com/tomz197/shootblitz/internal/physics"
)

// Spawner receives entities created during an update.
type Spawner interface {
	Spawn(e Entity)
}

// Intent is the player's movement and fire request for one frame.
type Intent struct {
	Left  bool
	Right bool
	Fire  bool
}

// Screen is the playable area in logical units.
type Screen struct {
	Width  float64
	Height float64
}

// UpdateContext provides all the information an entity needs during update.
type UpdateContext struct {
	Delta   float64 // Seconds since the previous frame, already clamped
	Intent  Intent
	Screen  Screen
	Spawner Spawner
	Rand    physics.Rand
	Haptic  haptic.Haptic
}

// DrawContext provides drawing resources for entities.
type DrawContext struct {
	Canvas *draw.Canvas
	Time   float64 // Seconds since the session started, for animation
}

// Entity is an updatable, drawable game object.
type Entity interface {
	// Update advances the entity by ctx.Delta seconds.
	Update(ctx UpdateContext)

	// IsAlive reports whether the entity takes part in the next frame.
	// Dead entities are purged at the end of the frame.
	IsAlive() bool

	// Draw renders the entity onto ctx.Canvas.
	Draw(ctx DrawContext) error
}

// Destructible is implemented by entities that can be killed by collisions.
type Destructible interface {
	Entity
	// MarkDestroyed clears the liveness flag.
	MarkDestroyed()
}

// Releasable is implemented by pooled entities that can be returned to a pool.
type Releasable interface {
	// Release returns the entity to its pool for reuse.
	Release()
}

// ReleaseEntity releases an entity back to its pool if it implements Releasable.
func ReleaseEntity(e Entity) {
	if r, ok := e.(Releasable); ok {
		r.Release()
	}
}

func vibrate(h haptic.Haptic, d time.Duration) {
	if h != nil {
		h.Vibrate(d)
	}
}
