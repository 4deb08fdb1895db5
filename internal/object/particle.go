package object

import (
	"sync"

	"github.com/tomz197/shootblitz/internal/draw"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// ParticleGravity is the constant downward acceleration applied to particles.
const ParticleGravity = 80.0

// Particle is a short-lived visual effect.
type Particle struct {
	X, Y     float64    // Position
	VX, VY   float64    // Velocity
	Elapsed  float64    // Seconds lived so far
	Lifespan float64    // Seconds until expiry
	Color    draw.Color // Colour tag inherited from the destroyed entity
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifespan float64, color draw.Color) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X:        x,
		Y:        y,
		VX:       vx,
		VY:       vy,
		Lifespan: lifespan,
		Color:    color,
	}
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Update integrates the particle under gravity.
func (p *Particle) Update(ctx UpdateContext) {
	dt := ctx.Delta
	p.Elapsed += dt
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.VY += ParticleGravity * dt
}

// IsAlive reports whether the particle has lifespan left.
func (p *Particle) IsAlive() bool {
	return p.Elapsed < p.Lifespan
}

// Alpha is the remaining opacity in [0, 1].
func (p *Particle) Alpha() float64 {
	if p.Lifespan <= 0 {
		return 0
	}
	return max(0, 1-p.Elapsed/p.Lifespan)
}

// Draw renders the particle as a single pixel fading toward the background.
func (p *Particle) Draw(ctx DrawContext) error {
	a := p.Alpha()
	if a <= 0 {
		return nil
	}
	ctx.Canvas.SetFloat(p.X, p.Y, p.Color.Fade(a))
	return nil
}
