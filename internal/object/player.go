package object

import (
	"time"

	"github.com/tomz197/shootblitz/internal/draw"
	"github.com/tomz197/shootblitz/internal/physics"
)

// Player tunables.
const (
	PlayerRadius         = 16.0
	PlayerSpeed          = 380.0 // Units per second
	PlayerFireInterval   = 0.18  // Seconds between volleys at multiplier 1
	PlayerBottomOffset   = 80.0  // Distance of the ship from the bottom edge
	PlayerEdgeMargin     = 6.0   // Extra gap kept from the side edges
	InitialLives         = 3
	InvulnerableSeconds  = 2.0
	MaxFireMultiplier    = 3.0
	FireMultiplierStep   = 0.2
	muzzleOffset         = 18.0
	primaryShotRadius    = 4.0
	trailingShotRadius   = 2.5
	playerHitPulse       = 35 * time.Millisecond
	shieldRadiusIncrease = 6.0
)

var (
	PlayerColor       = draw.Hex("#9fe8ff")
	playerHullColor   = draw.Hex("#2f6cf5")
	primaryShotColor  = draw.Hex("#9fe8ff")
	trailingShotColor = draw.Hex("#c2f7ff")
	shieldColor       = draw.Hex("#9fe8ff").Fade(0.5)
)

// Player is the ship controlled by the user.
type Player struct {
	X, Y           float64 // Position (center of ship)
	Radius         float64 // Collision radius
	Speed          float64 // Horizontal speed
	FireInterval   float64 // Base seconds between volleys
	Lives          int     // May drop below zero, which ends the game
	Invulnerable   float64 // Seconds of invulnerability left
	Score          int     // Cumulative score
	FireMultiplier float64 // Divides FireInterval, 1..MaxFireMultiplier
	fireCooldown   float64 // Time until next volley allowed
}

// NewPlayer creates a ship centred horizontally near the bottom of screen.
func NewPlayer(screen Screen) *Player {
	return &Player{
		X:              screen.Width / 2,
		Y:              screen.Height - PlayerBottomOffset,
		Radius:         PlayerRadius,
		Speed:          PlayerSpeed,
		FireInterval:   PlayerFireInterval,
		Lives:          InitialLives,
		FireMultiplier: 1,
	}
}

// Update moves the ship, runs down its timers and fires a volley when the
// fire intent is held and the cooldown has elapsed.
func (p *Player) Update(ctx UpdateContext) {
	dt := ctx.Delta

	dir := 0.0
	if ctx.Intent.Left {
		dir--
	}
	if ctx.Intent.Right {
		dir++
	}
	p.X += dir * p.Speed * dt
	p.X = physics.Clamp(p.X, p.Radius+PlayerEdgeMargin, ctx.Screen.Width-p.Radius-PlayerEdgeMargin)
	// The ship rides a fixed distance above the bottom edge, so it follows
	// the viewport when the terminal is resized.
	p.Y = ctx.Screen.Height - PlayerBottomOffset

	p.fireCooldown -= dt
	if ctx.Intent.Fire && p.fireCooldown <= 0 && ctx.Spawner != nil {
		p.fireCooldown = p.FireInterval / p.FireMultiplier
		y := p.Y - muzzleOffset
		ctx.Spawner.Spawn(NewProjectile(p.X, y, ProjectileSpeed, primaryShotRadius, primaryShotColor))
		ctx.Spawner.Spawn(NewProjectile(p.X, y, ProjectileSpeed, trailingShotRadius, trailingShotColor))
	}

	if p.Invulnerable > 0 {
		p.Invulnerable -= dt
	}
}

// Kill costs the player a life unless invulnerable. A hit pulses the haptic
// collaborator, explodes at the ship and starts the invulnerability window.
// Returns true when the player has no lives left and the game is over.
func (p *Player) Kill(ctx UpdateContext) (defeated bool) {
	if p.Invulnerable > 0 {
		return false
	}
	p.Lives--
	vibrate(ctx.Haptic, playerHitPulse)
	SpawnExplosion(ctx, p.X, p.Y, PlayerColor)
	p.Invulnerable = InvulnerableSeconds
	return p.Lives < 0
}

// IsAlive reports whether the player still has lives to lose.
func (p *Player) IsAlive() bool {
	return p.Lives >= 0
}

// AddScore awards points.
func (p *Player) AddScore(points int) {
	p.Score += points
}

// BoostFireRate raises the fire-rate multiplier by one step, up to the cap.
func (p *Player) BoostFireRate() {
	p.FireMultiplier = min(MaxFireMultiplier, p.FireMultiplier+FireMultiplierStep)
}

// Heal restores one life if below limit.
func (p *Player) Heal(limit int) {
	if p.Lives < limit {
		p.Lives++
	}
}

// Draw renders the ship as a triangle, plus a shield ring while invulnerable.
func (p *Player) Draw(ctx DrawContext) error {
	hull := ctx.Canvas.BorrowPoints(3)
	hull[0] = draw.Point{X: p.X, Y: p.Y - 18}
	hull[1] = draw.Point{X: p.X + 14, Y: p.Y + 14}
	hull[2] = draw.Point{X: p.X - 14, Y: p.Y + 14}
	ctx.Canvas.DrawPolygon(hull, true, playerHullColor)

	// Lighter nose over the hull.
	nose := ctx.Canvas.BorrowPoints(3)
	nose[0] = draw.Point{X: p.X, Y: p.Y - 18}
	nose[1] = draw.Point{X: p.X + 6, Y: p.Y - 4}
	nose[2] = draw.Point{X: p.X - 6, Y: p.Y - 4}
	ctx.Canvas.DrawPolygon(nose, true, PlayerColor)

	if p.Invulnerable > 0 {
		ctx.Canvas.StrokeCircle(p.X, p.Y-2, p.Radius+shieldRadiusIncrease, shieldColor)
	}
	return nil
}
