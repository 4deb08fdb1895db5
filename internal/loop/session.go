// Package loop runs a game session: the world simulation, its frame driver
// and the terminal presentation around it.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/shootblitz/internal/draw"
	"github.com/tomz197/shootblitz/internal/haptic"
	"github.com/tomz197/shootblitz/internal/hub"
	"github.com/tomz197/shootblitz/internal/input"
	"github.com/tomz197/shootblitz/internal/loop/config"
	"github.com/tomz197/shootblitz/internal/object"
	"github.com/tomz197/shootblitz/internal/physics"
)

// Fallback terminal size when the size query fails.
const (
	fallbackTermWidth  = 80
	fallbackTermHeight = 24
)

// Options configures a Session. Zero values select defaults.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	FPS          int
	Haptic       haptic.Haptic
	Rand         physics.Rand
	Logger       *log.Logger
	Events       <-chan hub.Event // Server events; nil for local play
}

// Session plays one game on one terminal.
type Session struct {
	world  *World
	driver *Driver
	hud    *HUD

	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	events       <-chan hub.Event
	logger       *log.Logger
	frameTime    time.Duration

	running        bool
	started        time.Time
	input          input.Input
	pointerWasHeld bool
	pressed        button
	gameOverAt     time.Time
	shuttingDown   bool
	shutdownTimer  float64

	prevState    GameState
	prevOverlay  overlay
	prevShutdown bool
}

// Viewport converts a terminal size to the logical playfield.
func Viewport(termWidth, termHeight int) object.Screen {
	return object.Screen{
		Width:  float64(termWidth * config.UnitsPerColumn),
		Height: float64(termHeight * config.UnitsPerRow),
	}
}

// NewSession creates a session reading input from r and drawing to w.
func NewSession(r *bufio.Reader, w io.Writer, opts Options) *Session {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	termWidth, termHeight := termSize(termSizeFunc)
	screen := Viewport(termWidth, termHeight)
	hud := NewHUD()
	world := NewWorld(WorldOptions{
		Screen:    screen,
		Rand:      opts.Rand,
		Haptic:    opts.Haptic,
		Presenter: hud,
		Logger:    logger,
	})

	return &Session{
		world:        world,
		driver:       NewDriver(world),
		hud:          hud,
		canvas:       draw.NewScaledCanvas(termWidth, termHeight, screen.Width, screen.Height),
		chunkWriter:  draw.NewChunkWriter(w),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		events:       opts.Events,
		logger:       logger,
		frameTime:    time.Second / time.Duration(fps),
		running:      true,
		prevOverlay:  hud.overlay,
	}
}

// Run starts the session loop. Blocks until the user quits, the server
// shutdown countdown ends, ctx is cancelled or drawing fails.
func (s *Session) Run(ctx context.Context) error {
	draw.HideCursor(s.writer)
	draw.EnableReporting(s.writer)
	defer draw.ShowCursor(s.writer)
	defer draw.DisableReporting(s.writer)
	defer s.inputStream.Stop()
	draw.ClearScreen(s.writer)

	s.started = time.Now()
	lastTime := s.started
	s.logger.Debug("session started", "fps", int(time.Second/s.frameTime))

	for s.running && ctx.Err() == nil {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		// ===== INPUT PHASE =====
		s.processInput(frameStart)
		s.processServerEvents(delta)
		s.updateScreen()

		// ===== UPDATE PHASE =====
		wasRunning := s.world.Running()
		s.driver.Frame(frameStart, s.intent())
		if wasRunning && s.world.State() == GameStateIdle {
			s.gameOverAt = frameStart
			input.ResetKeyInput(s.inputStream)
			s.pointerWasHeld = false
		}

		// ===== DRAW PHASE =====
		if err := s.drawFrame(frameStart); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < s.frameTime {
			time.Sleep(s.frameTime - elapsed)
		}
	}

	draw.ClearScreen(s.writer)
	s.logger.Debug("session ended", "state", s.world.State(), "wave", s.world.Wave)
	return nil
}

// World returns the simulated world.
func (s *Session) World() *World {
	return s.world
}

// processInput samples input once for this frame and handles the lifecycle
// keys. Movement and fire are read later through intent.
func (s *Session) processInput(now time.Time) {
	in := input.ReadInput(s.inputStream)
	s.input = in
	if in.Quit {
		s.running = false
		return
	}
	if s.shuttingDown {
		return
	}

	clicked := in.Pointer.Held && !s.pointerWasHeld
	s.pointerWasHeld = in.Pointer.Held
	s.pressed = buttonNone
	if in.Pointer.Held {
		s.pressed = buttonAt(in.Pointer.Col, in.Pointer.Row, s.canvas.TerminalWidth(), s.canvas.TerminalHeight())
	}

	if in.FocusLost {
		s.world.Pause()
	}

	if !s.world.Running() && (in.Start || in.Fire || clicked) && s.canStart(now) {
		s.startGame()
	}
}

// canStart reports whether a start request is accepted. A fresh game over
// blocks restarts briefly so a held fire key does not skip the final score.
func (s *Session) canStart(now time.Time) bool {
	if s.world.State() == GameStateIdle && !s.gameOverAt.IsZero() {
		return now.Sub(s.gameOverAt).Seconds() >= config.RestartDelay
	}
	return true
}

// startGame starts or restarts the world.
func (s *Session) startGame() {
	input.ResetKeyInput(s.inputStream)
	s.pointerWasHeld = false
	s.pressed = buttonNone
	s.input = input.Input{}
	s.driver.Reset()
	s.world.Start()
}

// intent merges keyboard and pointer-button input into this frame's intent.
func (s *Session) intent() object.Intent {
	return object.Intent{
		Left:  s.input.Left || s.pressed == buttonLeft,
		Right: s.input.Right || s.pressed == buttonRight,
		Fire:  s.input.Fire || s.pressed == buttonFire,
	}
}

// processServerEvents handles hub events and runs the shutdown countdown.
func (s *Session) processServerEvents(delta float64) {
	for s.events != nil {
		select {
		case event, ok := <-s.events:
			if !ok {
				// Hub dropped the session
				s.running = false
				return
			}
			if event.Type == hub.EventServerShutdown && !s.shuttingDown {
				s.shuttingDown = true
				s.shutdownTimer = config.ShutdownDisplaySeconds
				s.world.Pause()
				s.logger.Info("shutdown notice received")
			}
			continue
		default:
		}
		break
	}

	if s.shuttingDown {
		s.shutdownTimer -= delta
		if s.shutdownTimer <= 0 {
			s.running = false
		}
	}
}

// updateScreen follows terminal resizes. The canvas repaints fully on a size
// change and the world bounds against the new viewport.
func (s *Session) updateScreen() {
	termWidth, termHeight := termSize(s.termSizeFunc)
	if termWidth != s.canvas.TerminalWidth() || termHeight != s.canvas.TerminalHeight() {
		s.chunkWriter.WriteString("\033[H\033[2J")
		s.logger.Debug("terminal resized", "cols", termWidth, "rows", termHeight)
	}
	screen := Viewport(termWidth, termHeight)
	s.canvas.Resize(termWidth, termHeight, screen.Width, screen.Height)
	s.world.Resize(screen)
}

// drawFrame draws the current frame.
func (s *Session) drawFrame(now time.Time) error {
	// On a lifecycle transition do a full clear so overlay text from the
	// previous screen does not persist.
	state := s.world.State()
	if state != s.prevState || s.hud.overlay != s.prevOverlay || s.shuttingDown != s.prevShutdown {
		s.chunkWriter.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
		s.prevState = state
		s.prevOverlay = s.hud.overlay
		s.prevShutdown = s.shuttingDown
	}

	if err := s.world.Draw(s.canvas, now.Sub(s.started).Seconds()); err != nil {
		return err
	}
	if err := s.canvas.Render(s.chunkWriter); err != nil {
		return err
	}

	s.hud.Draw(s.chunkWriter, s.canvas, screenView{
		state:          state,
		pressed:        s.pressed,
		shuttingDown:   s.shuttingDown,
		shutdownTimer:  s.shutdownTimer,
		restartBlocked: !s.canStart(now),
		blink:          now.UnixMilli()/600%2 == 0,
	})

	return s.chunkWriter.Flush()
}

// termSize queries the terminal, falling back to 80x24.
func termSize(f draw.TermSizeFunc) (width, height int) {
	width, height, err := f()
	if err != nil || width <= 0 || height <= 0 {
		return fallbackTermWidth, fallbackTermHeight
	}
	return width, height
}
