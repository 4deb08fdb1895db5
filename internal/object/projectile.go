package object

import "github.com/tomz197/shootblitz/internal/draw"

// Projectile is a bullet fired by the player.
type Projectile struct {
	X, Y      float64    // Position
	VY        float64    // Vertical velocity, negative is up
	Radius    float64    // Collision/draw radius
	Color     draw.Color // Colour tag
	destroyed bool       // Marked for removal
}

// Projectile defaults.
const (
	ProjectileSpeed = -700.0
	// ProjectileMargin is how far past the viewport edge a projectile survives.
	ProjectileMargin = 20.0
)

// NewProjectile creates a projectile at (x,y) moving vertically at vy.
func NewProjectile(x, y, vy, radius float64, color draw.Color) *Projectile {
	return &Projectile{
		X:      x,
		Y:      y,
		VY:     vy,
		Radius: radius,
		Color:  color,
	}
}

// MarkDestroyed marks the projectile for removal.
func (p *Projectile) MarkDestroyed() {
	p.destroyed = true
}

// IsAlive reports whether the projectile is still in flight.
func (p *Projectile) IsAlive() bool {
	return !p.destroyed
}

// Update moves the projectile and retires it once it leaves the viewport.
func (p *Projectile) Update(ctx UpdateContext) {
	p.Y += p.VY * ctx.Delta
	if p.Y < -ProjectileMargin || p.Y > ctx.Screen.Height+ProjectileMargin {
		p.destroyed = true
	}
}

// Draw renders the projectile as a small disc.
func (p *Projectile) Draw(ctx DrawContext) error {
	ctx.Canvas.FillCircle(p.X, p.Y, p.Radius, p.Color)
	return nil
}
