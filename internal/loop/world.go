package loop

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/shootblitz/internal/draw"
	"github.com/tomz197/shootblitz/internal/haptic"
	"github.com/tomz197/shootblitz/internal/loop/config"
	"github.com/tomz197/shootblitz/internal/object"
	"github.com/tomz197/shootblitz/internal/physics"
)

// Presenter displays the status line and the lifecycle overlays.
type Presenter interface {
	SetScore(text string)
	SetLives(text string)
	SetWave(text string)
	// GameStarted hides the start and game-over overlays.
	GameStarted()
	// GameOver shows the game-over overlay with the final score.
	GameOver(finalScore int)
}

// WorldOptions configures a World. Zero values select defaults.
type WorldOptions struct {
	Screen    object.Screen
	Rand      physics.Rand
	Haptic    haptic.Haptic
	Presenter Presenter
	Logger    *log.Logger
}

// World owns every entity of one game session and orchestrates a frame.
// It is not safe for concurrent use; a session drives it from one goroutine.
type World struct {
	Player      *object.Player
	Projectiles []*object.Projectile
	Adversaries []*object.Adversary
	Particles   []*object.Particle
	Wave        int

	state     GameState
	screen    object.Screen
	rand      physics.Rand
	haptic    haptic.Haptic
	presenter Presenter
	logger    *log.Logger
}

// Compile-time check that World can receive spawned entities.
var _ object.Spawner = (*World)(nil)

// NewWorld creates an idle world.
func NewWorld(opts WorldOptions) *World {
	w := &World{
		state:     GameStateIdle,
		screen:    opts.Screen,
		rand:      opts.Rand,
		haptic:    opts.Haptic,
		presenter: opts.Presenter,
		logger:    opts.Logger,
	}
	if w.rand == nil {
		w.rand = physics.NewRand()
	}
	if w.haptic == nil {
		w.haptic = haptic.Nop{}
	}
	if w.presenter == nil {
		w.presenter = nopPresenter{}
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}
	return w
}

// State returns the current phase.
func (w *World) State() GameState {
	return w.state
}

// Running reports whether the frame driver should keep stepping the world.
func (w *World) Running() bool {
	return w.state == GameStateRunning
}

// Screen returns the playable area.
func (w *World) Screen() object.Screen {
	return w.screen
}

// Resize sets a new playable area. Entities bound against it from the next
// update on.
func (w *World) Resize(screen object.Screen) {
	w.screen = screen
}

// Start resets every collection, creates a fresh player, spawns wave 1 and
// switches to Running. It serves both the first start and restarts.
func (w *World) Start() {
	for _, p := range w.Particles {
		p.Release()
	}
	clear(w.Projectiles)
	clear(w.Adversaries)
	clear(w.Particles)
	w.Projectiles = w.Projectiles[:0]
	w.Adversaries = w.Adversaries[:0]
	w.Particles = w.Particles[:0]
	w.Player = object.NewPlayer(w.screen)
	w.Wave = 1

	object.SpawnWave(w.updateContext(0, object.Intent{}), w.Wave)

	w.state = GameStateRunning
	w.presenter.GameStarted()
	w.pushStatus()
	w.logger.Info("game started", "width", w.screen.Width, "height", w.screen.Height)
}

// Pause stops a running world. Only Start leaves the paused state.
func (w *World) Pause() {
	if w.state != GameStateRunning {
		return
	}
	w.state = GameStatePaused
	w.logger.Debug("game paused", "wave", w.Wave, "score", w.Player.Score)
}

// gameOver stops the world and reports the final score.
func (w *World) gameOver() {
	w.state = GameStateIdle
	w.presenter.GameOver(w.Player.Score)
	w.logger.Info("game over", "score", w.Player.Score, "wave", w.Wave)
}

// Update advances the world by dt seconds. dt must already be clamped by the
// caller. It does nothing unless the world is running.
func (w *World) Update(dt float64, intent object.Intent) {
	if w.state != GameStateRunning {
		return
	}
	ctx := w.updateContext(dt, intent)
	hadAdversaries := len(w.Adversaries) > 0

	// Projectiles fired by the player join the slice before it is ranged
	// over, so they move on the frame they were fired.
	w.Player.Update(ctx)
	for _, p := range w.Projectiles {
		p.Update(ctx)
	}
	for _, a := range w.Adversaries {
		a.Update(ctx)
	}
	for _, p := range w.Particles {
		p.Update(ctx)
	}

	defeated := w.resolveCollisions(ctx)

	w.Projectiles = compact(w.Projectiles)
	w.Adversaries = compact(w.Adversaries)
	w.Particles = compact(w.Particles)

	if hadAdversaries && len(w.Adversaries) == 0 {
		w.Wave++
		w.Player.Heal(config.LifeCap)
		object.SpawnWave(ctx, w.Wave)
		w.logger.Debug("wave cleared", "wave", w.Wave, "lives", w.Player.Lives)
	}

	w.pushStatus()

	if defeated {
		w.gameOver()
	}
}

// Spawn adds an entity created during an update to its collection.
func (w *World) Spawn(e object.Entity) {
	switch v := e.(type) {
	case *object.Projectile:
		w.Projectiles = append(w.Projectiles, v)
	case *object.Adversary:
		w.Adversaries = append(w.Adversaries, v)
	case *object.Particle:
		w.Particles = append(w.Particles, v)
	default:
		w.logger.Warn("spawn of unknown entity ignored", "type", fmt.Sprintf("%T", e))
	}
}

// Draw paints the background and every entity onto canvas. t is the session
// clock in seconds and only drives animation.
func (w *World) Draw(canvas *draw.Canvas, t float64) error {
	canvas.Clear()
	drawStars(canvas, w.screen, t)

	ctx := object.DrawContext{Canvas: canvas, Time: t}
	for _, p := range w.Particles {
		if err := p.Draw(ctx); err != nil {
			return err
		}
	}
	for _, a := range w.Adversaries {
		if err := a.Draw(ctx); err != nil {
			return err
		}
	}
	for _, p := range w.Projectiles {
		if err := p.Draw(ctx); err != nil {
			return err
		}
	}
	if w.Player != nil && w.Player.IsAlive() {
		if err := w.Player.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) updateContext(dt float64, intent object.Intent) object.UpdateContext {
	return object.UpdateContext{
		Delta:   dt,
		Intent:  intent,
		Screen:  w.screen,
		Spawner: w,
		Rand:    w.rand,
		Haptic:  w.haptic,
	}
}

// pushStatus sends the score, lives and wave lines to the presenter.
func (w *World) pushStatus() {
	w.presenter.SetScore(fmt.Sprintf("Score: %d", w.Player.Score))
	w.presenter.SetLives(fmt.Sprintf("Lives: %d", max(w.Player.Lives, 0)))
	w.presenter.SetWave(fmt.Sprintf("Wave: %d", w.Wave))
}

// compact drops dead entities in place and returns pooled ones to their pool.
func compact[T object.Entity](s []T) []T {
	kept := s[:0]
	for _, e := range s {
		if e.IsAlive() {
			kept = append(kept, e)
		} else {
			object.ReleaseEntity(e)
		}
	}
	clear(s[len(kept):])
	return kept
}

type nopPresenter struct{}

func (nopPresenter) SetScore(string) {}
func (nopPresenter) SetLives(string) {}
func (nopPresenter) SetWave(string)  {}
func (nopPresenter) GameStarted()    {}
func (nopPresenter) GameOver(int)    {}
