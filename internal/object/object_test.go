package object

import (
	"math"
	"testing"
	"time"

	"github.com/tomz197/shootblitz/internal/haptic"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

// collector records spawned entities.
type collector struct {
	entities []Entity
}

func (c *collector) Spawn(e Entity) {
	c.entities = append(c.entities, e)
}

func (c *collector) count(match func(Entity) bool) int {
	n := 0
	for _, e := range c.entities {
		if match(e) {
			n++
		}
	}
	return n
}

func isParticle(e Entity) bool   { _, ok := e.(*Particle); return ok }
func isProjectile(e Entity) bool { _, ok := e.(*Projectile); return ok }

var testScreen = Screen{Width: 640, Height: 384}

func testContext(dt float64, spawner Spawner) UpdateContext {
	return UpdateContext{
		Delta:   dt,
		Screen:  testScreen,
		Spawner: spawner,
		Rand:    fixedRand(0.5),
		Haptic:  haptic.Nop{},
	}
}

func TestWaveSize(t *testing.T) {
	tests := []struct {
		wave, want int
	}{
		{1, 7},
		{2, 8},
		{5, 12},
		{10, 18},
	}
	for _, tt := range tests {
		if got := WaveSize(tt.wave); got != tt.want {
			t.Errorf("WaveSize(%d) = %d, want %d", tt.wave, got, tt.want)
		}
	}
}

func TestToughChanceCapped(t *testing.T) {
	if got := ToughChance(1); math.Abs(got-0.16) > 1e-9 {
		t.Fatalf("ToughChance(1) = %v, want 0.16", got)
	}
	if got := ToughChance(100); got != 0.45 {
		t.Fatalf("ToughChance(100) = %v, want 0.45", got)
	}
}

func TestSpawnWaveStartsAboveTop(t *testing.T) {
	c := &collector{}
	ctx := testContext(0, c)
	SpawnWave(ctx, 1)

	if len(c.entities) != 7 {
		t.Fatalf("spawned %d adversaries, want 7", len(c.entities))
	}
	for _, e := range c.entities {
		a, ok := e.(*Adversary)
		if !ok {
			t.Fatalf("spawned %T, want *Adversary", e)
		}
		if a.Y >= 0 {
			t.Errorf("adversary visible at y=%v", a.Y)
		}
		if a.X < spawnEdgeMargin || a.X > testScreen.Width-spawnEdgeMargin {
			t.Errorf("adversary x=%v outside spawn band", a.X)
		}
		// fixedRand(0.5) puts the speed at the middle of 40..80 plus the wave bonus.
		if a.Speed != 66 {
			t.Errorf("speed = %v, want 66", a.Speed)
		}
		// 0.5 is above the tough chance, so every adversary is the default kind.
		if a.HP != 1 || a.Radius != AdversaryRadius || a.Color != AdversaryColor {
			t.Errorf("unexpected variant hp=%d r=%v", a.HP, a.Radius)
		}
	}
}

func TestSpawnWaveToughVariant(t *testing.T) {
	c := &collector{}
	ctx := testContext(0, c)
	ctx.Rand = fixedRand(0)
	SpawnWave(ctx, 3)

	for _, e := range c.entities {
		a := e.(*Adversary)
		if a.HP != 2 || a.Radius != ToughAdversaryRadius || a.Color != ToughAdversaryColor {
			t.Fatalf("want tough variant, got hp=%d r=%v", a.HP, a.Radius)
		}
	}
}

func TestSpawnExplosion(t *testing.T) {
	c := &collector{}
	SpawnExplosion(testContext(0, c), 100, 50, AdversaryColor)

	if got := c.count(isParticle); got != ExplosionParticles {
		t.Fatalf("spawned %d particles, want %d", got, ExplosionParticles)
	}
	for _, e := range c.entities {
		p := e.(*Particle)
		if p.Color != AdversaryColor {
			t.Fatal("particle did not inherit colour")
		}
		if p.Lifespan < minParticleLife || p.Lifespan > maxParticleLife {
			t.Fatalf("lifespan %v out of range", p.Lifespan)
		}
		speed := math.Hypot(p.VX, p.VY)
		if speed < minParticleSpeed-1e-9 || speed > maxParticleSpeed+1e-9 {
			t.Fatalf("speed %v out of range", speed)
		}
	}
}

func TestAdversaryBouncesOffEdges(t *testing.T) {
	a := &Adversary{X: 15, Y: 100, VX: -60, Speed: 40, HP: 1, Radius: 16}
	a.Update(testContext(0.016, nil))
	if a.VX <= 0 {
		t.Fatalf("VX = %v, want reflected to positive", a.VX)
	}

	a = &Adversary{X: testScreen.Width - 10, Y: 100, VX: 60, Speed: 40, HP: 1, Radius: 16}
	a.Update(testContext(0.016, nil))
	if a.VX >= 0 {
		t.Fatalf("VX = %v, want reflected to negative", a.VX)
	}
}

func TestAdversaryEscapesAtBottom(t *testing.T) {
	c := &collector{}
	a := &Adversary{X: 100, Y: testScreen.Height + 15, Speed: 100, HP: 1, Radius: 16}
	a.Update(testContext(0.02, c))
	if a.IsAlive() || !a.Escaped() {
		t.Fatal("adversary past the bottom edge should escape")
	}
	if len(c.entities) != 0 {
		t.Fatal("escape must not explode")
	}
}

func TestAdversaryHit(t *testing.T) {
	c := &collector{}
	ctx := testContext(0, c)
	a := &Adversary{X: 100, Y: 100, HP: 2, Radius: 20, Color: ToughAdversaryColor}

	if a.Hit(ctx, 1) {
		t.Fatal("tough adversary died on first hit")
	}
	if !a.IsAlive() || len(c.entities) != 0 {
		t.Fatal("first hit should only remove a hit point")
	}
	if !a.Hit(ctx, 1) {
		t.Fatal("second hit should destroy")
	}
	if a.IsAlive() {
		t.Fatal("adversary still alive at 0 hp")
	}
	if got := c.count(isParticle); got != ExplosionParticles {
		t.Fatalf("explosion spawned %d particles, want %d", got, ExplosionParticles)
	}
}

func TestPlayerStartsAtBottomCentre(t *testing.T) {
	p := NewPlayer(testScreen)
	if p.X != 320 || p.Y != testScreen.Height-PlayerBottomOffset {
		t.Fatalf("player at (%v,%v)", p.X, p.Y)
	}
	if p.Lives != InitialLives || p.FireMultiplier != 1 || p.Score != 0 {
		t.Fatalf("unexpected initial state %+v", p)
	}
}

func TestPlayerMovementClamped(t *testing.T) {
	p := NewPlayer(testScreen)
	ctx := testContext(1, nil)
	ctx.Intent = Intent{Left: true}
	for range 5 {
		p.Update(ctx)
	}
	if want := p.Radius + PlayerEdgeMargin; p.X != want {
		t.Fatalf("X = %v, want clamped to %v", p.X, want)
	}

	ctx.Intent = Intent{Right: true}
	for range 5 {
		p.Update(ctx)
	}
	if want := testScreen.Width - p.Radius - PlayerEdgeMargin; p.X != want {
		t.Fatalf("X = %v, want clamped to %v", p.X, want)
	}
}

func TestPlayerFiresTwoProjectiles(t *testing.T) {
	c := &collector{}
	p := NewPlayer(testScreen)
	ctx := testContext(0.016, c)
	ctx.Intent = Intent{Fire: true}

	p.Update(ctx)
	if got := c.count(isProjectile); got != 2 {
		t.Fatalf("fired %d projectiles, want 2", got)
	}
	a, b := c.entities[0].(*Projectile), c.entities[1].(*Projectile)
	if a.VY != b.VY || a.VY != ProjectileSpeed {
		t.Fatalf("projectile velocities %v and %v, want %v", a.VY, b.VY, ProjectileSpeed)
	}
	if a.Radius <= b.Radius {
		t.Fatal("trailing projectile should be thinner")
	}

	// Cooldown blocks the next volley.
	p.Update(ctx)
	if got := c.count(isProjectile); got != 2 {
		t.Fatalf("fired during cooldown: %d projectiles", got)
	}
}

func TestPlayerCooldownScalesWithMultiplier(t *testing.T) {
	c := &collector{}
	p := NewPlayer(testScreen)
	p.FireMultiplier = 2
	ctx := testContext(0, c)
	ctx.Intent = Intent{Fire: true}
	p.Update(ctx)

	if want := PlayerFireInterval / 2; math.Abs(p.fireCooldown-want) > 1e-9 {
		t.Fatalf("cooldown = %v, want %v", p.fireCooldown, want)
	}
}

func TestPlayerKillRespectsInvulnerability(t *testing.T) {
	c := &collector{}
	rec := &haptic.Recorder{}
	ctx := testContext(0, c)
	ctx.Haptic = rec
	p := NewPlayer(testScreen)

	if p.Kill(ctx) {
		t.Fatal("first hit should not defeat")
	}
	if p.Kill(ctx) {
		t.Fatal("second hit should not defeat")
	}
	if p.Lives != InitialLives-1 {
		t.Fatalf("lives = %d, want %d", p.Lives, InitialLives-1)
	}
	if p.Invulnerable != InvulnerableSeconds {
		t.Fatalf("invulnerable = %v, want %v", p.Invulnerable, InvulnerableSeconds)
	}
	if len(rec.Pulses) != 1 || rec.Pulses[0] != 35*time.Millisecond {
		t.Fatalf("pulses = %v, want one 35ms pulse", rec.Pulses)
	}
	if got := c.count(isParticle); got != ExplosionParticles {
		t.Fatalf("explosion spawned %d particles, want %d", got, ExplosionParticles)
	}

	// Invulnerability runs out with time.
	tick := testContext(0.5, c)
	for range 5 {
		p.Update(tick)
	}
	p.Kill(ctx)
	if p.Lives != InitialLives-2 {
		t.Fatalf("lives = %d after invulnerability expired, want %d", p.Lives, InitialLives-2)
	}
}

func TestPlayerKillAtZeroLivesDefeats(t *testing.T) {
	p := NewPlayer(testScreen)
	p.Lives = 0
	if !p.Kill(testContext(0, &collector{})) {
		t.Fatal("kill at zero lives should defeat")
	}
	if p.Lives != -1 || p.IsAlive() {
		t.Fatalf("lives = %d, alive = %v", p.Lives, p.IsAlive())
	}
}

func TestBoostFireRateCapped(t *testing.T) {
	p := NewPlayer(testScreen)
	p.BoostFireRate()
	if math.Abs(p.FireMultiplier-1.2) > 1e-9 {
		t.Fatalf("multiplier = %v, want 1.2", p.FireMultiplier)
	}
	for range 50 {
		p.BoostFireRate()
		if p.FireMultiplier > MaxFireMultiplier {
			t.Fatalf("multiplier %v exceeds cap", p.FireMultiplier)
		}
	}
	if p.FireMultiplier != MaxFireMultiplier {
		t.Fatalf("multiplier = %v, want %v", p.FireMultiplier, MaxFireMultiplier)
	}
}

func TestHealCapped(t *testing.T) {
	p := NewPlayer(testScreen)
	for range 10 {
		p.Heal(3)
	}
	if p.Lives != 3 {
		t.Fatalf("lives = %d, want 3", p.Lives)
	}
	p.Lives = 1
	p.Heal(3)
	if p.Lives != 2 {
		t.Fatalf("lives = %d, want 2", p.Lives)
	}
}

func TestProjectileLeavesViewport(t *testing.T) {
	p := NewProjectile(100, -5, ProjectileSpeed, 4, primaryShotColor)
	p.Update(testContext(0.033, nil))
	if p.IsAlive() {
		t.Fatal("projectile above the top margin should be retired")
	}

	p = NewProjectile(100, 200, ProjectileSpeed, 4, primaryShotColor)
	p.Update(testContext(0.016, nil))
	if !p.IsAlive() {
		t.Fatal("projectile inside the viewport retired")
	}
}

func TestParticleGravityAndExpiry(t *testing.T) {
	p := NewParticle(0, 0, 10, 0, 0.5, AdversaryColor)
	defer p.Release()

	p.Update(testContext(0.25, nil))
	if p.X != 2.5 {
		t.Fatalf("X = %v, want 2.5", p.X)
	}
	if p.VY != ParticleGravity*0.25 {
		t.Fatalf("VY = %v, want %v", p.VY, ParticleGravity*0.25)
	}
	if math.Abs(p.Alpha()-0.5) > 1e-9 {
		t.Fatalf("alpha = %v, want 0.5", p.Alpha())
	}
	if !p.IsAlive() {
		t.Fatal("particle expired early")
	}

	p.Update(testContext(0.25, nil))
	if p.IsAlive() {
		t.Fatal("particle past its lifespan still alive")
	}
}

func TestTextPlacement(t *testing.T) {
	c := CenteredText(1, 80, "Wave: 1", "")
	if c.Col != 37 {
		t.Fatalf("centred col = %d, want 37", c.Col)
	}
	r := RightAlignedText(1, 80, 1, "Lives: 3", "")
	if r.Col+r.Width()-1 != 79 {
		t.Fatalf("right aligned text ends at %d, want 79", r.Col+r.Width()-1)
	}
}
