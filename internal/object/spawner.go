package object

import (
	"math"

	"github.com/tomz197/shootblitz/internal/draw"
	"github.com/tomz197/shootblitz/internal/physics"
)

// Wave and explosion tuning.
const (
	BaseWaveSize       = 6
	WaveSizeGrowth     = 1.2
	spawnEdgeMargin    = 30.0
	spawnMinY          = -200.0
	spawnMaxY          = -20.0
	minDescentSpeed    = 40.0
	maxDescentSpeed    = 80.0
	descentPerWave     = 6.0
	baseToughChance    = 0.15
	toughChancePerWave = 0.01
	maxToughChance     = 0.45

	ExplosionParticles = 18
	minParticleSpeed   = 60.0
	maxParticleSpeed   = 220.0
	minParticleLife    = 0.4
	maxParticleLife    = 0.9
)

// WaveSize returns the number of adversaries in the given wave.
func WaveSize(wave int) int {
	return BaseWaveSize + int(math.Floor(float64(wave)*WaveSizeGrowth))
}

// ToughChance returns the probability of a two-hit adversary in the given wave.
func ToughChance(wave int) float64 {
	return min(baseToughChance+float64(wave)*toughChancePerWave, maxToughChance)
}

// SpawnWave hands a full wave of adversaries to ctx.Spawner. They start above
// the top edge so none are visible on the first frame.
func SpawnWave(ctx UpdateContext, wave int) {
	if ctx.Spawner == nil {
		return
	}
	n := WaveSize(wave)
	for range n {
		x := physics.Uniform(ctx.Rand, spawnEdgeMargin, ctx.Screen.Width-spawnEdgeMargin)
		y := physics.Uniform(ctx.Rand, spawnMinY, spawnMaxY)
		speed := physics.Uniform(ctx.Rand, minDescentSpeed, maxDescentSpeed) + float64(wave)*descentPerWave

		hp, radius, color := 1, AdversaryRadius, AdversaryColor
		if physics.Chance(ctx.Rand, ToughChance(wave)) {
			hp, radius, color = 2, ToughAdversaryRadius, ToughAdversaryColor
		}
		ctx.Spawner.Spawn(NewAdversary(x, y, speed, hp, radius, color, ctx.Rand))
	}
}

// SpawnExplosion emits a burst of particles at (x,y) in the given colour.
func SpawnExplosion(ctx UpdateContext, x, y float64, color draw.Color) {
	if ctx.Spawner == nil {
		return
	}
	for range ExplosionParticles {
		angle := physics.Uniform(ctx.Rand, 0, 2*math.Pi)
		speed := physics.Uniform(ctx.Rand, minParticleSpeed, maxParticleSpeed)
		life := physics.Uniform(ctx.Rand, minParticleLife, maxParticleLife)
		ctx.Spawner.Spawn(NewParticle(x, y, math.Cos(angle)*speed, math.Sin(angle)*speed, life, color))
	}
}
