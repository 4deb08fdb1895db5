package loop

import (
	"github.com/tomz197/shootblitz/internal/loop/config"
	"github.com/tomz197/shootblitz/internal/object"
	"github.com/tomz197/shootblitz/internal/physics"
)

// resolveCollisions runs both collision passes for the current frame and
// reports whether the player lost their last life.
func (w *World) resolveCollisions(ctx object.UpdateContext) (defeated bool) {
	w.checkProjectileAdversaryCollisions(ctx)
	return w.checkAdversaryPlayerCollisions(ctx)
}

// checkProjectileAdversaryCollisions lets each live projectile strike at most
// one adversary, the first overlapping one in collection order.
func (w *World) checkProjectileAdversaryCollisions(ctx object.UpdateContext) {
	for _, p := range w.Projectiles {
		if !p.IsAlive() {
			continue
		}
		for _, a := range w.Adversaries {
			if !a.IsAlive() {
				continue
			}
			if !physics.CirclesOverlap(p.X, p.Y, p.Radius, a.X, a.Y, a.Radius) {
				continue
			}
			p.MarkDestroyed()
			if a.Hit(ctx, config.DamagePerHit) {
				w.haptic.Vibrate(config.KillPulse)
				w.Player.AddScore(config.KillScore)
				if physics.Chance(w.rand, config.FireBoostChance) {
					w.Player.BoostFireRate()
				}
			}
			break
		}
	}
}

// checkAdversaryPlayerCollisions removes the first adversary touching the
// player, without an explosion, and costs the player a life.
func (w *World) checkAdversaryPlayerCollisions(ctx object.UpdateContext) (defeated bool) {
	p := w.Player
	for _, a := range w.Adversaries {
		if !a.IsAlive() {
			continue
		}
		if physics.CirclesOverlap(a.X, a.Y, a.Radius, p.X, p.Y, p.Radius) {
			a.MarkDestroyed()
			return p.Kill(ctx)
		}
	}
	return false
}
