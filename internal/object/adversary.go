package object

import (
	"github.com/tomz197/shootblitz/internal/draw"
	"github.com/tomz197/shootblitz/internal/physics"
)

// Adversary variants.
const (
	AdversaryRadius      = 16.0
	ToughAdversaryRadius = 20.0
	AdversaryDrift       = 60.0 // Max horizontal drift speed either way
)

var (
	AdversaryColor      = draw.Hex("#ff4d6d")
	ToughAdversaryColor = draw.Hex("#ff7b54")
	highlightColor      = draw.RGB(255, 255, 255)
)

// Adversary is a descending enemy ship.
type Adversary struct {
	X, Y      float64    // Position (center)
	VX        float64    // Horizontal drift, reflects at the viewport edges
	Speed     float64    // Descent speed
	HP        int        // Hit points left
	Radius    float64    // Collision/draw radius
	Color     draw.Color // Colour tag, also used for its explosion
	destroyed bool       // Marked for removal
	escaped   bool       // Left through the bottom edge
}

// NewAdversary creates an adversary at (x,y). The drift velocity is drawn
// from rnd.
func NewAdversary(x, y, speed float64, hp int, radius float64, color draw.Color, rnd physics.Rand) *Adversary {
	return &Adversary{
		X:      x,
		Y:      y,
		VX:     physics.Uniform(rnd, -AdversaryDrift, AdversaryDrift),
		Speed:  speed,
		HP:     hp,
		Radius: radius,
		Color:  color,
	}
}

// Update descends, drifts and bounces off the side edges. Passing the
// bottom edge retires the adversary without score.
func (a *Adversary) Update(ctx UpdateContext) {
	dt := ctx.Delta
	a.Y += a.Speed * dt
	a.X += a.VX * dt
	if a.X < a.Radius || a.X > ctx.Screen.Width-a.Radius {
		a.VX = -a.VX
	}
	if a.Y > ctx.Screen.Height+a.Radius {
		a.destroyed = true
		a.escaped = true
	}
}

// Hit applies damage. At zero hit points the adversary dies and explodes in
// its own colour. Returns true if this hit destroyed it.
func (a *Adversary) Hit(ctx UpdateContext, damage int) bool {
	a.HP -= damage
	if a.HP > 0 {
		return false
	}
	a.destroyed = true
	SpawnExplosion(ctx, a.X, a.Y, a.Color)
	return true
}

// MarkDestroyed removes the adversary without an explosion.
func (a *Adversary) MarkDestroyed() {
	a.destroyed = true
}

// IsAlive reports whether the adversary is still in play.
func (a *Adversary) IsAlive() bool {
	return !a.destroyed
}

// Escaped reports whether the adversary left through the bottom edge.
func (a *Adversary) Escaped() bool {
	return a.escaped
}

// Draw renders the adversary as a disc with a highlight toward the upper left.
func (a *Adversary) Draw(ctx DrawContext) error {
	ctx.Canvas.FillCircle(a.X, a.Y, a.Radius, a.Color)
	ctx.Canvas.FillCircle(a.X-a.Radius*0.35, a.Y-a.Radius*0.35, a.Radius*0.3, a.Color.Mix(highlightColor, 0.45))
	return nil
}
